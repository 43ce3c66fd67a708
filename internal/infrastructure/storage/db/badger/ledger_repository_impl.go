package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/timshannon/badgerhold/v4"
)

type ledgerRepositoryImpl struct {
	store *badgerhold.Store
}

// NewLedgerRepositoryImpl initialize a badger implementation of the
// domain.LedgerRepository
func NewLedgerRepositoryImpl(store *badgerhold.Store) domain.LedgerRepository {
	return ledgerRepositoryImpl{store}
}

func (r ledgerRepositoryImpl) GetBalance(
	ctx context.Context, account, asset string,
) (*uint256.Int, error) {
	var balance *uint256.Int
	err := view(ctx, r.store, func(tx *badger.Txn) (err error) {
		balance, err = r.getBalance(tx, account, asset)
		return
	})
	return balance, err
}

func (r ledgerRepositoryImpl) GetBalances(
	ctx context.Context, account string,
) (map[string]*uint256.Int, error) {
	var models []balanceModel
	if err := view(ctx, r.store, func(tx *badger.Txn) error {
		return r.store.TxFind(
			tx, &models, badgerhold.Where("Account").Eq(account),
		)
	}); err != nil {
		return nil, err
	}

	balances := make(map[string]*uint256.Int)
	for _, m := range models {
		amount, err := mathutil.ParseUnits(m.Amount)
		if err != nil {
			return nil, err
		}
		if !amount.IsZero() {
			balances[m.Asset] = amount
		}
	}
	return balances, nil
}

func (r ledgerRepositoryImpl) Credit(
	ctx context.Context, account, asset string, amount *uint256.Int,
) error {
	return update(ctx, r.store, func(tx *badger.Txn) error {
		return r.credit(tx, account, asset, amount)
	})
}

func (r ledgerRepositoryImpl) Debit(
	ctx context.Context, account, asset string, amount *uint256.Int,
) error {
	return update(ctx, r.store, func(tx *badger.Txn) error {
		return r.debit(tx, account, asset, amount)
	})
}

func (r ledgerRepositoryImpl) Transfer(
	ctx context.Context, from, to, asset string, amount *uint256.Int,
) error {
	return update(ctx, r.store, func(tx *badger.Txn) error {
		if err := r.debit(tx, from, asset, amount); err != nil {
			return err
		}
		return r.credit(tx, to, asset, amount)
	})
}

func (r ledgerRepositoryImpl) getBalance(
	tx *badger.Txn, account, asset string,
) (*uint256.Int, error) {
	var model balanceModel
	if err := r.store.TxGet(tx, balanceKey(account, asset), &model); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return mathutil.Zero(), nil
		}
		return nil, err
	}
	return mathutil.ParseUnits(model.Amount)
}

func (r ledgerRepositoryImpl) credit(
	tx *badger.Txn, account, asset string, amount *uint256.Int,
) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	balance, err := r.getBalance(tx, account, asset)
	if err != nil {
		return err
	}
	if balance, err = mathutil.Add(balance, amount); err != nil {
		return err
	}
	return r.setBalance(tx, account, asset, balance)
}

func (r ledgerRepositoryImpl) debit(
	tx *badger.Txn, account, asset string, amount *uint256.Int,
) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	balance, err := r.getBalance(tx, account, asset)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return fmt.Errorf(
			"%w: account %s holds %s of %s, requested %s",
			domain.ErrInsufficientBalance, account,
			mathutil.FormatDecimal(balance), asset, mathutil.FormatDecimal(amount),
		)
	}
	return r.setBalance(
		tx, account, asset, new(uint256.Int).Sub(balance, amount),
	)
}

func (r ledgerRepositoryImpl) setBalance(
	tx *badger.Txn, account, asset string, balance *uint256.Int,
) error {
	return r.store.TxUpsert(tx, balanceKey(account, asset), &balanceModel{
		Account: account,
		Asset:   asset,
		Amount:  mathutil.FormatUnits(balance),
	})
}
