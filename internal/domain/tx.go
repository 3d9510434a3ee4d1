package domain

import "context"

// Transactor runs fn inside a single store transaction. Repositories called with the
// context passed to fn take part in that transaction. Any error from fn rolls back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
