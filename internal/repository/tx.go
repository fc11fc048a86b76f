package repository

import "context"

// Transactor runs fn in a single storage transaction. Repository calls made
// with the context handed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
