package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// MockAccountStore implements store.AccountStore for testing.
type MockAccountStore struct {
	CreateFn     func(ctx context.Context, account *domain.Account) error
	GetByIDFn    func(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Account, error)
	UpdateFn     func(ctx context.Context, id int64, update store.AccountUpdate) error

	mu       sync.Mutex
	accounts map[int64]*domain.Account
	nextID   int64

	// WithTxCalls counts WithTx invocations.
	WithTxCalls int
}

var _ store.AccountStore = (*MockAccountStore)(nil)

// NewMockAccountStore creates an empty in-memory account store.
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{accounts: make(map[int64]*domain.Account)}
}

// Create implements store.AccountStore.
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}
	if err := account.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Username == account.Username {
			return store.ErrUsernameExists
		}
		if a.Email == account.Email {
			return store.ErrEmailExists
		}
	}

	m.nextID++
	account.ID = m.nextID
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

// GetByID implements store.AccountStore.
func (m *MockAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	found := *a
	return &found, nil
}

// GetByEmail implements store.AccountStore.
func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Email == email {
			found := *a
			return &found, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// Update implements store.AccountStore.
func (m *MockAccountStore) Update(ctx context.Context, id int64, update store.AccountUpdate) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return store.ErrAccountNotFound
	}
	for otherID, other := range m.accounts {
		if otherID == id {
			continue
		}
		if update.Username != nil && other.Username == *update.Username {
			return store.ErrUsernameExists
		}
		if update.Email != nil && other.Email == *update.Email {
			return store.ErrEmailExists
		}
	}

	if update.Username != nil {
		a.Username = *update.Username
	}
	if update.Email != nil {
		a.Email = *update.Email
	}
	if update.PasswordHash != nil {
		a.PasswordHash = *update.PasswordHash
	}
	return nil
}

// WithTx implements store.AccountStore and returns the same mock.
func (m *MockAccountStore) WithTx(_ *sql.Tx) store.AccountStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}
