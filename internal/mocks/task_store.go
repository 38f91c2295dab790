package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, item *domain.TaskItem) error
	GetOwnedFn     func(ctx context.Context, id, accountID int64) (*domain.TaskItem, error)
	ListFn         func(ctx context.Context, filter store.TaskFilter) ([]*domain.TaskItem, error)
	UpdateFn       func(ctx context.Context, item *domain.TaskItem) error
	UpdateStatusFn func(ctx context.Context, item *domain.TaskItem) error

	mu     sync.Mutex
	items  map[int64]*domain.TaskItem
	nextID int64

	// WithTxCalls counts WithTx invocations.
	WithTxCalls int
	// LastFilter is the filter most recently passed to List.
	LastFilter store.TaskFilter
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{items: make(map[int64]*domain.TaskItem)}
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, item *domain.TaskItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}
	if err := item.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	item.ID = m.nextID
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

// Seed stores item as-is, keeping its ID.
func (m *MockTaskStore) Seed(item *domain.TaskItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *item
	m.items[item.ID] = &stored
	if item.ID > m.nextID {
		m.nextID = item.ID
	}
}

// GetOwned implements store.TaskStore.
func (m *MockTaskStore) GetOwned(ctx context.Context, id, accountID int64) (*domain.TaskItem, error) {
	if m.GetOwnedFn != nil {
		return m.GetOwnedFn(ctx, id, accountID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok || item.AccountID != accountID {
		return nil, store.ErrTaskNotFound
	}
	found := *item
	return &found, nil
}

// List implements store.TaskStore with the same filtering and paging rules
// as the SQL store. Sorting honours created_at and id only.
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.TaskItem, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	f, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]*domain.TaskItem, 0)
	term := f.Search
	for _, item := range m.items {
		if item.AccountID != f.AccountID {
			continue
		}
		if f.Status != nil && item.Status != *f.Status {
			continue
		}
		if term != "" && !strings.Contains(item.Title, term) && !strings.Contains(item.Description, term) {
			continue
		}
		found := *item
		matched = append(matched, &found)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if f.SortBy != store.SortByID && !a.CreatedAt.Equal(b.CreatedAt) {
			if f.SortOrder == store.SortAsc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if f.SortOrder == store.SortAsc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})

	start := f.Offset()
	if start >= len(matched) {
		return []*domain.TaskItem{}, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, item *domain.TaskItem) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[item.ID]
	if !ok || existing.AccountID != item.AccountID {
		return store.ErrTaskNotFound
	}
	existing.Title = item.Title
	existing.Description = item.Description
	existing.DueDate = item.DueDate
	existing.UpdatedAt = item.UpdatedAt
	return nil
}

// UpdateStatus implements store.TaskStore.
func (m *MockTaskStore) UpdateStatus(ctx context.Context, item *domain.TaskItem) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[item.ID]
	if !ok || existing.AccountID != item.AccountID {
		return store.ErrTaskNotFound
	}
	existing.Status = item.Status
	existing.UpdatedAt = item.UpdatedAt
	return nil
}

// WithTx implements store.TaskStore and returns the same mock.
func (m *MockTaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}
