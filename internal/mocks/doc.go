// Package mocks provides shared test doubles for the store, auth and
// transaction interfaces.
//
// Each mock has function fields that override a single method. When a field
// is nil the mock falls back to an in-memory default, so
//
//	accounts := mocks.NewMockAccountStore()
//	tasks := mocks.NewMockTaskStore()
//
// behave like a small working database.
package mocks
