package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// LedgerRepositoryImpl keeps balances by account and asset.
type LedgerRepositoryImpl struct {
	balances map[string]map[string]*uint256.Int

	lock *sync.RWMutex
}

func NewLedgerRepositoryImpl() *LedgerRepositoryImpl {
	return &LedgerRepositoryImpl{
		balances: map[string]map[string]*uint256.Int{},
		lock:     &sync.RWMutex{},
	}
}

func (r *LedgerRepositoryImpl) GetBalance(
	_ context.Context, account, asset string,
) (*uint256.Int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getBalance(account, asset), nil
}

func (r *LedgerRepositoryImpl) GetBalances(
	_ context.Context, account string,
) (map[string]*uint256.Int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	balances := make(map[string]*uint256.Int)
	for asset, amount := range r.balances[account] {
		if !amount.IsZero() {
			balances[asset] = mathutil.Clone(amount)
		}
	}
	return balances, nil
}

func (r *LedgerRepositoryImpl) Credit(
	_ context.Context, account, asset string, amount *uint256.Int,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.credit(account, asset, amount)
}

func (r *LedgerRepositoryImpl) Debit(
	_ context.Context, account, asset string, amount *uint256.Int,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.debit(account, asset, amount)
}

func (r *LedgerRepositoryImpl) Transfer(
	_ context.Context, from, to, asset string, amount *uint256.Int,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.debit(from, asset, amount); err != nil {
		return err
	}
	return r.credit(to, asset, amount)
}

func (r *LedgerRepositoryImpl) getBalance(account, asset string) *uint256.Int {
	return mathutil.Clone(r.balances[account][asset])
}

func (r *LedgerRepositoryImpl) credit(
	account, asset string, amount *uint256.Int,
) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	balance, err := mathutil.Add(r.getBalance(account, asset), amount)
	if err != nil {
		return err
	}
	r.setBalance(account, asset, balance)
	return nil
}

func (r *LedgerRepositoryImpl) debit(
	account, asset string, amount *uint256.Int,
) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	balance := r.getBalance(account, asset)
	if balance.Lt(amount) {
		return fmt.Errorf(
			"%w: account %s holds %s of %s, requested %s",
			domain.ErrInsufficientBalance, account,
			mathutil.FormatDecimal(balance), asset, mathutil.FormatDecimal(amount),
		)
	}
	r.setBalance(account, asset, new(uint256.Int).Sub(balance, amount))
	return nil
}

func (r *LedgerRepositoryImpl) setBalance(
	account, asset string, balance *uint256.Int,
) {
	if _, ok := r.balances[account]; !ok {
		r.balances[account] = map[string]*uint256.Int{}
	}
	r.balances[account][asset] = balance
}

func (r *LedgerRepositoryImpl) snapshot() map[string]map[string]*uint256.Int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	balances := make(map[string]map[string]*uint256.Int, len(r.balances))
	for account, byAsset := range r.balances {
		balances[account] = make(map[string]*uint256.Int, len(byAsset))
		for asset, amount := range byAsset {
			balances[account][asset] = mathutil.Clone(amount)
		}
	}
	return balances
}

func (r *LedgerRepositoryImpl) restore(balances map[string]map[string]*uint256.Int) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.balances = balances
}
