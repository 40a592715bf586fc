package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks the non-transactional path when calling repositories directly.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the underlying handle to repositories via the `tx` argument.
// Use-case interfaces stay clean (no driver types leak out), while repository
// implementations detect a live transaction and bind their statements to it.
// Repositories must gracefully accept a nil tx (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
