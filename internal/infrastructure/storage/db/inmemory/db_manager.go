package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
)

// RepoManager holds the in memory repositories. Write transactions are
// serialized and roll back by restoring a snapshot of every repository taken
// before running the handler.
type RepoManager struct {
	poolRepository   *PoolRepositoryImpl
	ledgerRepository *LedgerRepositoryImpl
	priceRepository  *PriceRepositoryImpl

	txLock *sync.RWMutex
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		poolRepository:   NewPoolRepositoryImpl(),
		ledgerRepository: NewLedgerRepositoryImpl(),
		priceRepository:  NewPriceRepositoryImpl(),
		txLock:           &sync.RWMutex{},
	}
}

func (d *RepoManager) PoolRepository() domain.PoolRepository {
	return d.poolRepository
}

func (d *RepoManager) LedgerRepository() domain.LedgerRepository {
	return d.ledgerRepository
}

func (d *RepoManager) PriceRepository() domain.PriceRepository {
	return d.priceRepository
}

func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if readOnly {
		d.txLock.RLock()
		defer d.txLock.RUnlock()

		return handler(ctx)
	}

	d.txLock.Lock()
	defer d.txLock.Unlock()

	pools := d.poolRepository.snapshot()
	balances := d.ledgerRepository.snapshot()
	prices := d.priceRepository.snapshot()

	res, err := handler(ctx)
	if err != nil {
		d.poolRepository.restore(pools)
		d.ledgerRepository.restore(balances)
		d.priceRepository.restore(prices)
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}
