package ports

import (
	"context"

	"github.com/tdex-network/tdex-pmm/internal/core/domain"
)

// RepoManager holds all the repositories and runs the handlers that must
// read and write them atomically.
type RepoManager interface {
	PoolRepository() domain.PoolRepository
	LedgerRepository() domain.LedgerRepository
	PriceRepository() domain.PriceRepository

	// RunTransaction runs handler in a single transaction, which is committed
	// only if handler returns no error. The repositories must be accessed with
	// the context passed to handler to take part in the transaction.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
