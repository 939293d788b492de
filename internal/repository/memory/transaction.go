package memory

import (
	"context"

	"docvault/internal/domain/repositories"
)

type txKey struct{}

// TransactionManager gives ExecTx all-or-nothing semantics over a Store by
// snapshotting the tables and restoring them when fn fails
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager for the store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn as one unit. Nested calls join the outer unit.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	tm.store.mu.Lock()
	snapshot := tm.store.data.clone()
	tm.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		tm.store.mu.Lock()
		tm.store.data = snapshot
		tm.store.mu.Unlock()
		return err
	}
	return nil
}
