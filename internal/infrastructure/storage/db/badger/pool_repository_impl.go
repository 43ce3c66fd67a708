package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type poolRepositoryImpl struct {
	store *badgerhold.Store
}

// NewPoolRepositoryImpl initialize a badger implementation of the
// domain.PoolRepository
func NewPoolRepositoryImpl(store *badgerhold.Store) domain.PoolRepository {
	return poolRepositoryImpl{store}
}

func (r poolRepositoryImpl) AddPool(ctx context.Context, pool *domain.Pool) error {
	if pool == nil {
		return ErrPoolInvalidRequest
	}

	return update(ctx, r.store, func(tx *badger.Txn) error {
		query := badgerhold.Where("BaseAsset").Eq(pool.BaseAsset).
			And("QuoteAsset").Eq(pool.QuoteAsset).
			And("Kind").Eq(pool.Kind.String())

		var pools []poolModel
		if err := r.store.TxFind(tx, &pools, query); err != nil {
			return err
		}
		if len(pools) > 0 {
			return domain.ErrPoolAlreadyExists
		}

		if err := r.store.TxInsert(tx, pool.ID, newPoolModel(*pool)); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrPoolAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r poolRepositoryImpl) GetPool(
	ctx context.Context, id string,
) (*domain.Pool, error) {
	var pool *domain.Pool
	err := view(ctx, r.store, func(tx *badger.Txn) (err error) {
		pool, err = r.getPool(tx, id)
		return
	})
	return pool, err
}

func (r poolRepositoryImpl) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	var models []poolModel
	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &models, nil)
	}); err != nil {
		return nil, err
	}

	pools := make([]domain.Pool, 0, len(models))
	for _, m := range models {
		pool, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		pools = append(pools, *pool)
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

func (r poolRepositoryImpl) UpdatePool(
	ctx context.Context,
	id string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	return update(ctx, r.store, func(tx *badger.Txn) error {
		pool, err := r.getPool(tx, id)
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

		return r.store.TxUpdate(tx, id, newPoolModel(*updatedPool))
	})
}

func (r poolRepositoryImpl) getPool(tx *badger.Txn, id string) (*domain.Pool, error) {
	var model poolModel
	if err := r.store.TxGet(tx, id, &model); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return model.toDomain()
}
