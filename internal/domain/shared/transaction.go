package shared

import "context"

// TransactionManager runs a function inside a storage transaction.
// Repositories called with the context passed to fn participate in the
// same transaction; any error rolls the whole unit of work back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
