package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/tdex-pmm/internal/core/domain"
)

// PoolRepositoryImpl represents an in memory storage
type PoolRepositoryImpl struct {
	pools map[string]domain.Pool

	lock *sync.RWMutex
}

// NewPoolRepositoryImpl returns a new empty PoolRepositoryImpl
func NewPoolRepositoryImpl() *PoolRepositoryImpl {
	return &PoolRepositoryImpl{
		pools: map[string]domain.Pool{},
		lock:  &sync.RWMutex{},
	}
}

func (r *PoolRepositoryImpl) AddPool(_ context.Context, pool *domain.Pool) error {
	if pool == nil {
		return ErrPoolInvalidRequest
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pools[pool.ID]; ok {
		return domain.ErrPoolAlreadyExists
	}
	for _, p := range r.pools {
		if p.BaseAsset == pool.BaseAsset && p.QuoteAsset == pool.QuoteAsset &&
			p.Kind == pool.Kind {
			return domain.ErrPoolAlreadyExists
		}
	}

	r.pools[pool.ID] = *pool.Copy()
	return nil
}

func (r *PoolRepositoryImpl) GetPool(
	_ context.Context, id string,
) (*domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getPool(id)
}

// GetAllPools returns all pools sorted by base and quote asset.
func (r *PoolRepositoryImpl) GetAllPools(_ context.Context) ([]domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pools := make([]domain.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, *p.Copy())
	}
	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].BaseAsset != pools[j].BaseAsset {
			return pools[i].BaseAsset < pools[j].BaseAsset
		}
		if pools[i].QuoteAsset != pools[j].QuoteAsset {
			return pools[i].QuoteAsset < pools[j].QuoteAsset
		}
		return pools[i].ID < pools[j].ID
	})
	return pools, nil
}

// UpdatePool passes a copy of the pool to updateFn and stores the result only
// if it returns no error.
func (r *PoolRepositoryImpl) UpdatePool(
	_ context.Context,
	id string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	pool, err := r.getPool(id)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}
	if updatedPool == nil || updatedPool.ID != id {
		return ErrPoolInvalidRequest
	}

	r.pools[id] = *updatedPool.Copy()
	return nil
}

func (r *PoolRepositoryImpl) getPool(id string) (*domain.Pool, error) {
	pool, ok := r.pools[id]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	return pool.Copy(), nil
}

func (r *PoolRepositoryImpl) snapshot() map[string]domain.Pool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pools := make(map[string]domain.Pool, len(r.pools))
	for id, p := range r.pools {
		pools[id] = *p.Copy()
	}
	return pools
}

func (r *PoolRepositoryImpl) restore(pools map[string]domain.Pool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.pools = pools
}
