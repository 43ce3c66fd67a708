package domain_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

const (
	baseAsset  = "0000000000000000000000000000000000000000000000000000000000000000"
	quoteAsset = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	maintainer = "maintainer"
)

func TestNewPool(t *testing.T) {
	t.Parallel()

	params := newTestParams(t, "0.1", "0.002", "0.001")

	t.Run("private", func(t *testing.T) {
		p, err := domain.NewPool(
			baseAsset, quoteAsset, domain.PoolKindPrivate, params, maintainer,
		)
		require.NoError(t, err)
		require.NotNil(t, p)
		require.NotEmpty(t, p.ID)
		require.Equal(t, baseAsset, p.BaseAsset)
		require.Equal(t, quoteAsset, p.QuoteAsset)
		require.Equal(t, mm.RStatusOne, p.RStatus)
		require.True(t, p.BaseReserve.IsZero())
		require.True(t, p.QuoteTarget.IsZero())
		require.False(t, p.IsFunded())
		require.Equal(t, "pool:"+p.ID, p.Account())
	})

	t.Run("vending", func(t *testing.T) {
		p, err := domain.NewPool(
			baseAsset, quoteAsset, domain.PoolKindVending, params, maintainer,
		)
		require.NoError(t, err)
		require.Equal(t, mm.RStatusBelowOne, p.RStatus)
	})
}

func TestFailingNewPool(t *testing.T) {
	t.Parallel()

	params := newTestParams(t, "0.1", "0.002", "0.001")

	tests := []struct {
		name       string
		baseAsset  string
		quoteAsset string
		kind       domain.PoolKind
		params     domain.Params
		maintainer string
	}{
		{
			name:       "missing_base_asset",
			quoteAsset: quoteAsset,
			params:     params,
			maintainer: maintainer,
		},
		{
			name:       "missing_quote_asset",
			baseAsset:  baseAsset,
			params:     params,
			maintainer: maintainer,
		},
		{
			name:       "same_assets",
			baseAsset:  baseAsset,
			quoteAsset: baseAsset,
			params:     params,
			maintainer: maintainer,
		},
		{
			name:       "unknown_kind",
			baseAsset:  baseAsset,
			quoteAsset: quoteAsset,
			kind:       domain.PoolKind(7),
			params:     params,
			maintainer: maintainer,
		},
		{
			name:       "k_above_one",
			baseAsset:  baseAsset,
			quoteAsset: quoteAsset,
			params: domain.Params{
				K:         amount(t, "1000000000000000001"),
				LpFeeRate: mathutil.Zero(),
				MtFeeRate: mathutil.Zero(),
			},
			maintainer: maintainer,
		},
		{
			name:       "fee_rates_sum_to_one",
			baseAsset:  baseAsset,
			quoteAsset: quoteAsset,
			params: domain.Params{
				K:         mathutil.Zero(),
				LpFeeRate: decimalAmount(t, "0.5"),
				MtFeeRate: decimalAmount(t, "0.5"),
			},
			maintainer: maintainer,
		},
		{
			name:       "missing_params",
			baseAsset:  baseAsset,
			quoteAsset: quoteAsset,
			maintainer: maintainer,
		},
		{
			name:       "missing_maintainer",
			baseAsset:  baseAsset,
			quoteAsset: quoteAsset,
			params:     params,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := domain.NewPool(
				tt.baseAsset, tt.quoteAsset, tt.kind, tt.params, tt.maintainer,
			)
			require.ErrorIs(t, err, domain.ErrInvalidParameter)
		})
	}
}

func TestParsePoolKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []domain.PoolKind{
		domain.PoolKindPrivate, domain.PoolKindVending,
	} {
		parsed, err := domain.ParsePoolKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, parsed)
	}

	_, err := domain.ParsePoolKind("dodo")
	require.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestDeposit(t *testing.T) {
	t.Parallel()

	t.Run("balanced", func(t *testing.T) {
		p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")

		err := p.Deposit(nil, decimalAmount(t, "1"), decimalAmount(t, "100"))
		require.NoError(t, err)
		require.Equal(t, mm.RStatusOne, p.RStatus)
		requireAmount(t, "11000000000000000000", p.BaseReserve)
		requireAmount(t, "11000000000000000000", p.BaseTarget)
		requireAmount(t, "1100000000000000000000", p.QuoteTarget)
	})

	t.Run("deviated", func(t *testing.T) {
		p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")
		_, err := p.SellQuote(price(t), decimalAmount(t, "100"))
		require.NoError(t, err)

		err = p.Deposit(nil, decimalAmount(t, "1"), mathutil.Zero())
		require.ErrorIs(t, err, domain.ErrInvalidParameter)

		err = p.Deposit(price(t), decimalAmount(t, "1"), mathutil.Zero())
		require.NoError(t, err)
		require.Equal(t, mm.RStatusBelowOne, p.RStatus)
		require.NoError(t, p.CheckRStatus())
		requireAmount(t, "1000000000000000000000", p.QuoteTarget)
		require.True(t, p.BaseTarget.Gt(p.BaseReserve))
	})

	t.Run("nothing", func(t *testing.T) {
		p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")

		err := p.Deposit(nil, mathutil.Zero(), mathutil.Zero())
		require.ErrorIs(t, err, domain.ErrInvalidParameter)
	})
}

func TestReset(t *testing.T) {
	t.Parallel()

	newDeviatedPool := func(t *testing.T) *domain.Pool {
		p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")
		_, err := p.SellBase(price(t), decimalAmount(t, "1"))
		require.NoError(t, err)
		require.Equal(t, mm.RStatusAboveOne, p.RStatus)
		return p
	}
	newParams := newTestParams(t, "0.2", "0.003", "0")

	t.Run("back_to_one", func(t *testing.T) {
		p := newDeviatedPool(t)

		err := p.Reset(domain.ResetArgs{
			Params:  newParams,
			BaseOut: decimalAmount(t, "1"),
		})
		require.NoError(t, err)
		require.Equal(t, mm.RStatusOne, p.RStatus)
		require.Equal(t, newParams, p.Params)
		requireAmount(t, "10000000000000000000", p.BaseReserve)
		requireAmount(t, "10000000000000000000", p.BaseTarget)
		requireAmount(t, "901283631576572307521", p.QuoteReserve)
		requireAmount(t, "901283631576572307521", p.QuoteTarget)
	})

	t.Run("explicit_targets", func(t *testing.T) {
		p := newDeviatedPool(t)

		err := p.Reset(domain.ResetArgs{
			Params:      newParams,
			BaseTarget:  decimalAmount(t, "10"),
			QuoteTarget: decimalAmount(t, "1000"),
		})
		require.NoError(t, err)
		require.Equal(t, mm.RStatusAboveOne, p.RStatus)
		requireAmount(t, "10000000000000000000", p.BaseTarget)
		requireAmount(t, "1000000000000000000000", p.QuoteTarget)
	})

	t.Run("vending", func(t *testing.T) {
		p := newVendingPool(t)

		err := p.Reset(domain.ResetArgs{
			Params:   newParams,
			QuoteOut: decimalAmount(t, "500"),
		})
		require.NoError(t, err)
		require.Equal(t, mm.RStatusBelowOne, p.RStatus)
		requireAmount(t, "500000000000000000000", p.QuoteReserve)
		require.True(t, p.QuoteTarget.IsZero())
	})
}

func TestFailingReset(t *testing.T) {
	t.Parallel()

	params := newTestParams(t, "0.1", "0.002", "0.001")

	tests := []struct {
		name          string
		kind          domain.PoolKind
		args          func(t *testing.T) domain.ResetArgs
		expectedError error
	}{
		{
			name: "invalid_params",
			args: func(t *testing.T) domain.ResetArgs {
				return domain.ResetArgs{}
			},
			expectedError: domain.ErrInvalidParameter,
		},
		{
			name: "base_reserve_below_min",
			args: func(t *testing.T) domain.ResetArgs {
				return domain.ResetArgs{
					Params:         params,
					MinBaseReserve: decimalAmount(t, "11"),
				}
			},
			expectedError: domain.ErrInsufficientLiquidity,
		},
		{
			name: "quote_reserve_below_min",
			args: func(t *testing.T) domain.ResetArgs {
				return domain.ResetArgs{
					Params:          params,
					MinQuoteReserve: decimalAmount(t, "1000.000000000000000001"),
				}
			},
			expectedError: domain.ErrInsufficientLiquidity,
		},
		{
			name: "withdrawal_above_reserve",
			args: func(t *testing.T) domain.ResetArgs {
				return domain.ResetArgs{
					Params:   params,
					QuoteOut: decimalAmount(t, "1001"),
				}
			},
			expectedError: domain.ErrInsufficientLiquidity,
		},
		{
			name: "single_target",
			args: func(t *testing.T) domain.ResetArgs {
				return domain.ResetArgs{
					Params:     params,
					BaseTarget: decimalAmount(t, "10"),
				}
			},
			expectedError: domain.ErrInvalidParameter,
		},
		{
			name: "targets_on_same_side",
			args: func(t *testing.T) domain.ResetArgs {
				return domain.ResetArgs{
					Params:      params,
					BaseTarget:  decimalAmount(t, "11"),
					QuoteTarget: decimalAmount(t, "1100"),
				}
			},
			expectedError: domain.ErrInvalidParameter,
		},
		{
			name: "vending_targets",
			kind: domain.PoolKindVending,
			args: func(t *testing.T) domain.ResetArgs {
				return domain.ResetArgs{
					Params:      params,
					BaseTarget:  decimalAmount(t, "10"),
					QuoteTarget: decimalAmount(t, "1000"),
				}
			},
			expectedError: domain.ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p *domain.Pool
			if tt.kind == domain.PoolKindVending {
				p = newVendingPool(t)
			} else {
				p = newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")
			}
			before := p.Copy()

			err := p.Reset(tt.args(t))
			require.ErrorIs(t, err, tt.expectedError)
			require.Equal(t, before, p)
		})
	}
}

func newTestParams(t *testing.T, k, lpFeeRate, mtFeeRate string) domain.Params {
	params, err := domain.NewParams(
		decimalAmount(t, k), decimalAmount(t, lpFeeRate), decimalAmount(t, mtFeeRate),
	)
	require.NoError(t, err)
	return params
}

// newTestPool returns a pool funded with 10 base and 1000 quote.
func newTestPool(
	t *testing.T, kind domain.PoolKind, k, lpFeeRate, mtFeeRate string,
) *domain.Pool {
	p, err := domain.NewPool(
		baseAsset, quoteAsset, kind,
		newTestParams(t, k, lpFeeRate, mtFeeRate), maintainer,
	)
	require.NoError(t, err)

	err = p.Deposit(price(t), decimalAmount(t, "10"), decimalAmount(t, "1000"))
	require.NoError(t, err)
	return p
}

// newVendingPool returns a vending pool with k=1 and a reference price of one
// wei, so that it prices as a constant product curve.
func newVendingPool(t *testing.T) *domain.Pool {
	p, err := domain.NewPool(
		baseAsset, quoteAsset, domain.PoolKindVending,
		newTestParams(t, "1", "0.002", "0.001"), maintainer,
	)
	require.NoError(t, err)

	err = p.Deposit(
		uint256.NewInt(1), decimalAmount(t, "10"), decimalAmount(t, "1000"),
	)
	require.NoError(t, err)
	return p
}

func price(t *testing.T) *uint256.Int {
	return decimalAmount(t, "100")
}

func amount(t *testing.T, s string) *uint256.Int {
	n, err := mathutil.ParseUnits(s)
	require.NoError(t, err)
	return n
}

func decimalAmount(t *testing.T, s string) *uint256.Int {
	n, err := mathutil.ParseDecimal(s)
	require.NoError(t, err)
	return n
}

func requireAmount(t *testing.T, expected string, actual *uint256.Int) {
	t.Helper()
	require.NotNil(t, actual)
	require.Equal(t, expected, mathutil.FormatUnits(actual))
}
