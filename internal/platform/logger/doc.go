// Package logger provides structured logging for the todo API.
//
// It builds on log/slog with a JSON handler writing to stdout. A request
// scoped logger travels through context.Context so that handlers, services
// and stores all emit records carrying the same trace_id.
package logger
