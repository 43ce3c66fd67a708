package domain

import "context"

// PoolRepository is the abstraction for any kind of database intended to
// persist Pools.
type PoolRepository interface {
	// AddPool adds a new pool to the repository.
	AddPool(ctx context.Context, pool *Pool) error
	// GetPool returns the pool with the given id.
	GetPool(ctx context.Context, id string) (*Pool, error)
	// GetAllPools returns all pools.
	GetAllPools(ctx context.Context) ([]Pool, error)
	// UpdatePool updates the state of a pool. The closure function lets to
	// commit multiple changes to a pool in a transactional way.
	UpdatePool(
		ctx context.Context,
		id string, updateFn func(p *Pool) (*Pool, error),
	) error
}
