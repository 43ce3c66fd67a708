package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/timshannon/badgerhold/v4"
)

type priceRepositoryImpl struct {
	store *badgerhold.Store
}

// NewPriceRepositoryImpl initialize a badger implementation of the
// domain.PriceRepository
func NewPriceRepositoryImpl(store *badgerhold.Store) domain.PriceRepository {
	return priceRepositoryImpl{store}
}

func (r priceRepositoryImpl) GetPrice(
	ctx context.Context, poolID string,
) (*uint256.Int, error) {
	var model priceModel
	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, poolID, &model)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPriceNotFound
		}
		return nil, err
	}
	return mathutil.ParseUnits(model.Price)
}

func (r priceRepositoryImpl) UpdatePrice(
	ctx context.Context, poolID string, price *uint256.Int,
) error {
	return update(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxUpsert(tx, poolID, &priceModel{
			PoolID: poolID,
			Price:  mathutil.FormatUnits(price),
		})
	})
}
