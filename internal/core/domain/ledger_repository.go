package domain

import (
	"context"

	"github.com/holiman/uint256"
)

// LedgerRepository keeps the balances of accounts per asset. It is the
// custody layer pools settle with: a pool account mirrors the pool reserves
// and maintainer fees are credited to the maintainer account.
type LedgerRepository interface {
	// GetBalance returns the balance of account for asset, zero if unknown.
	GetBalance(ctx context.Context, account, asset string) (*uint256.Int, error)
	// GetBalances returns all non-zero balances of account by asset.
	GetBalances(ctx context.Context, account string) (map[string]*uint256.Int, error)
	// Credit adds amount to the balance.
	Credit(ctx context.Context, account, asset string, amount *uint256.Int) error
	// Debit subtracts amount from the balance, failing with
	// ErrInsufficientBalance if not covered.
	Debit(ctx context.Context, account, asset string, amount *uint256.Int) error
	// Transfer moves amount of asset between accounts.
	Transfer(
		ctx context.Context, from, to, asset string, amount *uint256.Int,
	) error
}
