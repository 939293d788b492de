package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs structural mutations as one unit: either every
// write inside fn is applied or none is.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
