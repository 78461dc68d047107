package domain

import "context"

// TransactionManager runs fn inside a single store transaction. Repositories
// pick the transaction up from the context passed to fn.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
