package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/todo-api/internal/store"
)

// MockTxRunner implements store.TxRunner by calling fn with a nil *sql.Tx.
// Store mocks ignore the transaction, so fn runs against them directly.
type MockTxRunner struct {
	RunInTxFn func(ctx context.Context, fn store.TxFn) error

	mu    sync.Mutex
	Calls int
}

var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTx implements store.TxRunner.
func (m *MockTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	return fn(ctx, nil)
}
