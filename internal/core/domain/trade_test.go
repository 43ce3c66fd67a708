package domain_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

type expectedTrade struct {
	pay, receive, lpFee, mtFee, gross string
}

type expectedPool struct {
	baseReserve, quoteReserve string
	baseTarget, quoteTarget   string
	rStatus                   mm.RState
}

type tradeSide int

const (
	sellBase tradeSide = iota
	sellQuote
	buyBase
)

type tradeStep struct {
	name      string
	side      tradeSide
	amount    string
	trade     expectedTrade
	err       error
	finalPool expectedPool
}

type poolArgs struct {
	k, lpFeeRate, mtFeeRate string
	base, quote             string
	price                   string
}

var defaultPoolArgs = poolArgs{"0.1", "0.002", "0.001", "10", "1000", "100"}

func (a poolArgs) newPool(t *testing.T) *domain.Pool {
	p, err := domain.NewPool(
		baseAsset, quoteAsset, domain.PoolKindPrivate,
		newTestParams(t, a.k, a.lpFeeRate, a.mtFeeRate), maintainer,
	)
	require.NoError(t, err)

	err = p.Deposit(
		decimalAmount(t, a.price), decimalAmount(t, a.base), decimalAmount(t, a.quote),
	)
	require.NoError(t, err)
	return p
}

func (s tradeSide) query(p *domain.Pool, price, amount *uint256.Int) (*domain.TradeResult, error) {
	switch s {
	case sellBase:
		return p.QuerySellBase(price, amount)
	case sellQuote:
		return p.QuerySellQuote(price, amount)
	default:
		return p.QueryBuyBase(price, amount)
	}
}

func (s tradeSide) trade(p *domain.Pool, price, amount *uint256.Int) (*domain.TradeResult, error) {
	switch s {
	case sellBase:
		return p.SellBase(price, amount)
	case sellQuote:
		return p.SellQuote(price, amount)
	default:
		return p.BuyBase(price, amount)
	}
}

func TestTradeSequences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pool  poolArgs
		steps []tradeStep
	}{
		{
			name: "quote_first",
			pool: defaultPoolArgs,
			steps: []tradeStep{
				{
					name:   "sell_100_quote",
					side:   sellQuote,
					amount: "100",
					trade: expectedTrade{
						"100000000000000000000",
						"986174542266106307", "1978283936341236",
						"989141968170618", "989141968170618161",
					},
					finalPool: expectedPool{
						"9012836315765723075", "1100000000000000000000",
						"10001980616044835266", "1000000000000000000000",
						mm.RStatusBelowOne,
					},
				},
				{
					name:   "sell_100_quote_again",
					side:   sellQuote,
					amount: "100",
					trade: expectedTrade{
						"100000000000000000000",
						"960597750261447066", "1926976429812331",
						"963488214906165", "963488214906165562",
					},
					finalPool: expectedPool{
						"8051275077289369844", "1200000000000000000000",
						"10003918404860394640", "1000000000000000000000",
						mm.RStatusBelowOne,
					},
				},
				{
					name:   "sell_1_base",
					side:   sellBase,
					amount: "1",
					trade: expectedTrade{
						"1000000000000000000",
						"103421814651005338950", "207466027384163167",
						"103733013692081583", "103733013692081583700",
					},
					finalPool: expectedPool{
						"9051275077289369844", "1096474452335302579467",
						"10005950249348099200", "1000000000000000000000",
						mm.RStatusBelowOne,
					},
				},
				{
					name:   "sell_2_base_across_one",
					side:   sellBase,
					amount: "2",
					trade: expectedTrade{
						"2000000000000000000",
						"199216459197337942144", "399631813836184437",
						"199815906918092218", "199815906918092218799",
					},
					finalPool: expectedPool{
						"11051275077289369844", "897058177231046545105",
						"10005950249348099200", "1000400150457194578226",
						mm.RStatusAboveOne,
					},
				},
			},
		},
		{
			name: "base_first",
			pool: defaultPoolArgs,
			steps: []tradeStep{
				{
					name:   "sell_1_base",
					side:   sellBase,
					amount: "1",
					trade: expectedTrade{
						"1000000000000000000",
						"98617454226610630663", "197828393634123632",
						"98914196817061816", "98914196817061816111",
					},
					finalPool: expectedPool{
						"11000000000000000000", "901283631576572307521",
						"10000000000000000000", "1000198061604483526684",
						mm.RStatusAboveOne,
					},
				},
				{
					name:   "sell_1_base_again",
					side:   sellBase,
					amount: "1",
					trade: expectedTrade{
						"1000000000000000000",
						"96059775026144706446", "192697642981233112",
						"96348821490616556", "96348821490616556114",
					},
					finalPool: expectedPool{
						"12000000000000000000", "805127507728936984519",
						"10000000000000000000", "1000391840486039464170",
						mm.RStatusAboveOne,
					},
				},
				{
					name:   "sell_100_quote",
					side:   sellQuote,
					amount: "100",
					trade: expectedTrade{
						"100000000000000000000",
						"1034218146510053391", "2074660273841631",
						"1037330136920815", "1037330136920815837",
					},
					finalPool: expectedPool{
						"10964744523353025794", "905127507728936984519",
						"10000000000000000000", "1000595024934809920179",
						mm.RStatusAboveOne,
					},
				},
				{
					name:   "sell_200_quote_across_one",
					side:   sellQuote,
					amount: "200",
					trade: expectedTrade{
						"200000000000000000000",
						"1992164591973379421", "3996318138361844",
						"1998159069180922", "1998159069180922187",
					},
					finalPool: expectedPool{
						"8970581772310465451", "1105127507728936984519",
						"10004001504571945782", "1000595024934809920179",
						mm.RStatusBelowOne,
					},
				},
			},
		},
		{
			name: "buy_first",
			pool: defaultPoolArgs,
			steps: []tradeStep{
				{
					name:   "buy_1_base",
					side:   buyBase,
					amount: "1",
					trade: expectedTrade{
						"101418160497943759027",
						"1000000000000000000", "2000000000000000",
						"1000000000000000", "1003000000000000000",
					},
					finalPool: expectedPool{
						"8999000000000000000", "1101418160497943759027",
						"10002002430889317763", "1000000000000000000000",
						mm.RStatusBelowOne,
					},
				},
				{
					name:   "buy_1_base_again",
					side:   buyBase,
					amount: "1",
					trade: expectedTrade{
						"104214656068644163320",
						"1000000000000000000", "2000000000000000",
						"1000000000000000", "1003000000000000000",
					},
					finalPool: expectedPool{
						"7998000000000000000", "1205632816566587922347",
						"10004014414346000150", "1000000000000000000000",
						mm.RStatusBelowOne,
					},
				},
				{
					name:   "sell_2_base",
					side:   sellBase,
					amount: "2",
					trade: expectedTrade{
						"2000000000000000000",
						"204416244934717180114", "410062677903143791",
						"205031338951571895", "205031338951571895800",
					},
					finalPool: expectedPool{
						"9998000000000000000", "1001011540292919170338",
						"10008114379717778624", "1000000000000000000000",
						mm.RStatusBelowOne,
					},
				},
			},
		},
		{
			name: "buy_back_to_one",
			pool: defaultPoolArgs,
			steps: []tradeStep{
				{
					name:   "sell_1_base",
					side:   sellBase,
					amount: "1",
					trade: expectedTrade{
						"1000000000000000000",
						"98617454226610630663", "197828393634123632",
						"98914196817061816", "98914196817061816111",
					},
					finalPool: expectedPool{
						"11000000000000000000", "901283631576572307521",
						"10000000000000000000", "1000198061604483526684",
						mm.RStatusAboveOne,
					},
				},
				{
					name:   "buy_the_surplus_back",
					side:   buyBase,
					amount: "0.997008973080757728",
					trade: expectedTrade{
						"98914430027911219163",
						"997008973080757728", "1994017946161515",
						"997008973080757", "1000000000000000000",
					},
					finalPool: expectedPool{
						"10001994017946161515", "1000198061604483526684",
						"10001994017946161515", "1000198061604483526684",
						mm.RStatusOne,
					},
				},
			},
		},
		{
			name: "buy_through_one",
			pool: defaultPoolArgs,
			steps: []tradeStep{
				{
					name:   "sell_1_base",
					side:   sellBase,
					amount: "1",
					trade: expectedTrade{
						"1000000000000000000",
						"98617454226610630663", "197828393634123632",
						"98914196817061816", "98914196817061816111",
					},
					finalPool: expectedPool{
						"11000000000000000000", "901283631576572307521",
						"10000000000000000000", "1000198061604483526684",
						mm.RStatusAboveOne,
					},
				},
				{
					name:   "buy_2_base",
					side:   buyBase,
					amount: "2",
					trade: expectedTrade{
						"200639664628756226867",
						"2000000000000000000", "4000000000000000",
						"2000000000000000", "2006000000000000000",
					},
					finalPool: expectedPool{
						"8998000000000000000", "1101923296205328534388",
						"10004004892749547751", "1000198061604483526684",
						mm.RStatusBelowOne,
					},
				},
			},
		},
		{
			// at constant price the whole quote reserve is worth 0.00001 base
			name: "constant_price_drain",
			pool: poolArgs{"0", "0", "0", "10", "0.000001", "0.1"},
			steps: []tradeStep{
				{
					name:   "sell_the_whole_quote_reserve_worth",
					side:   sellBase,
					amount: "0.00001",
					err:    domain.ErrInsufficientLiquidity,
					finalPool: expectedPool{
						"10000000000000000000", "1000000000000",
						"10000000000000000000", "1000000000000",
						mm.RStatusOne,
					},
				},
				{
					name:   "sell_base",
					side:   sellBase,
					amount: "0.000009",
					trade: expectedTrade{
						"9000000000000", "900000000000", "0", "0", "900000000000",
					},
					finalPool: expectedPool{
						"10000009000000000000", "100000000000",
						"10000000000000000000", "1000000000000",
						mm.RStatusAboveOne,
					},
				},
				{
					name:   "sell_quote_back_to_one",
					side:   sellQuote,
					amount: "0.0000009",
					trade: expectedTrade{
						"900000000000", "9000000000000", "0", "0", "9000000000000",
					},
					finalPool: expectedPool{
						"10000000000000000000", "1000000000000",
						"10000000000000000000", "1000000000000",
						mm.RStatusOne,
					},
				},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := tt.pool.newPool(t)
			refPrice := decimalAmount(t, tt.pool.price)
			for _, step := range tt.steps {
				amount := decimalAmount(t, step.amount)

				if step.err != nil {
					before := p.Copy()
					_, err := step.side.query(p, refPrice, amount)
					require.ErrorIs(t, err, step.err, step.name)
					_, err = step.side.trade(p, refPrice, amount)
					require.ErrorIs(t, err, step.err, step.name)
					require.Equal(t, before, p, step.name)
				} else {
					preview, err := step.side.query(p, refPrice, amount)
					require.NoError(t, err, step.name)
					result, err := step.side.trade(p, refPrice, amount)
					require.NoError(t, err, step.name)
					require.Equal(t, preview, result, step.name)

					requireAmount(t, step.trade.pay, result.Pay)
					requireAmount(t, step.trade.receive, result.Receive)
					requireAmount(t, step.trade.lpFee, result.LpFee)
					requireAmount(t, step.trade.mtFee, result.MtFee)
					requireAmount(t, step.trade.gross, result.Gross)
					require.Equal(t, step.finalPool.rStatus, result.NewRStatus)
				}

				requireAmount(t, step.finalPool.baseReserve, p.BaseReserve)
				requireAmount(t, step.finalPool.quoteReserve, p.QuoteReserve)
				requireAmount(t, step.finalPool.baseTarget, p.BaseTarget)
				requireAmount(t, step.finalPool.quoteTarget, p.QuoteTarget)
				require.Equal(t, step.finalPool.rStatus, p.RStatus)
				requireAmount(t, mathutil.FormatUnits(refPrice), p.ReferencePrice)
				require.NoError(t, p.CheckRStatus())
			}
		})
	}
}

func TestSellQuoteTwiceYieldsLess(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0")

	first, err := p.SellQuote(price(t), decimalAmount(t, "100"))
	require.NoError(t, err)
	requireAmount(t, "987163684234276925", first.Receive)
	requireAmount(t, "1978283936341236", first.LpFee)
	require.True(t, first.MtFee.IsZero())
	require.Equal(t, mm.RStatusBelowOne, p.RStatus)

	second, err := p.SellQuote(price(t), decimalAmount(t, "100"))
	require.NoError(t, err)
	requireAmount(t, "961561238476353231", second.Receive)
	requireAmount(t, "1926976429812331", second.LpFee)
	require.True(t, second.Receive.Lt(first.Receive))
}

func TestVendingPool(t *testing.T) {
	t.Parallel()

	p := newVendingPool(t)
	vendingPrice := uint256.NewInt(1)

	requireAmount(t, "100000000005000000000124999990", p.BaseTarget)
	require.True(t, p.QuoteTarget.IsZero())

	buy, err := p.QuerySellQuote(vendingPrice, decimalAmount(t, "200"))
	require.NoError(t, err)
	requireAmount(t, "1661666666528194445", buy.Receive)
	requireAmount(t, "3333333333055555", buy.LpFee)
	requireAmount(t, "1666666666527777", buy.MtFee)
	require.Equal(t, mm.RStatusBelowOne, buy.NewRStatus)

	sell, err := p.QuerySellBase(vendingPrice, decimalAmount(t, "1"))
	require.NoError(t, err)
	requireAmount(t, "90636363645427272728", sell.Receive)
	requireAmount(t, "181818181836363636", sell.LpFee)
	requireAmount(t, "90909090918181818", sell.MtFee)
	require.Equal(t, mm.RStatusBelowOne, sell.NewRStatus)

	bought, err := p.QueryBuyBase(vendingPrice, decimalAmount(t, "1"))
	require.NoError(t, err)
	requireAmount(t, "111481604990585750806", bought.Pay)
	requireAmount(t, "1000000000000000000", bought.Receive)
	require.Equal(t, mm.RStatusBelowOne, bought.NewRStatus)

	_, err = p.SellBase(vendingPrice, decimalAmount(t, "1"))
	require.NoError(t, err)
	require.Equal(t, mm.RStatusBelowOne, p.RStatus)
	require.True(t, p.QuoteTarget.IsZero())
	require.NoError(t, p.CheckRStatus())
}

func TestZeroAmountIsNoop(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")
	_, err := p.SellQuote(price(t), decimalAmount(t, "100"))
	require.NoError(t, err)
	before := p.Copy()

	result, err := p.SellBase(price(t), mathutil.Zero())
	require.NoError(t, err)
	require.True(t, result.Receive.IsZero())
	require.True(t, result.Gross.IsZero())
	require.Equal(t, before.RStatus, result.NewRStatus)
	require.Equal(t, before, p)

	result, err = p.SellQuote(price(t), mathutil.Zero())
	require.NoError(t, err)
	require.True(t, result.Receive.IsZero())
	require.Equal(t, before, p)

	result, err = p.BuyBase(price(t), mathutil.Zero())
	require.NoError(t, err)
	require.True(t, result.Pay.IsZero())
	require.True(t, result.Receive.IsZero())
	require.Equal(t, before, p)
}

func TestFailingTrade(t *testing.T) {
	t.Parallel()

	t.Run("invalid_price", func(t *testing.T) {
		p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")

		_, err := p.SellBase(mathutil.Zero(), decimalAmount(t, "1"))
		require.ErrorIs(t, err, domain.ErrInvalidParameter)
		_, err = p.QuerySellQuote(nil, decimalAmount(t, "1"))
		require.ErrorIs(t, err, domain.ErrInvalidParameter)
	})

	t.Run("missing_amount", func(t *testing.T) {
		p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")

		_, err := p.SellQuote(price(t), nil)
		require.ErrorIs(t, err, domain.ErrInvalidParameter)
	})

	t.Run("empty_pool", func(t *testing.T) {
		p, err := domain.NewPool(
			baseAsset, quoteAsset, domain.PoolKindPrivate,
			newTestParams(t, "0.1", "0.002", "0.001"), maintainer,
		)
		require.NoError(t, err)

		_, err = p.SellBase(price(t), decimalAmount(t, "1"))
		require.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
	})

	t.Run("no_quote_liquidity", func(t *testing.T) {
		p, err := domain.NewPool(
			baseAsset, quoteAsset, domain.PoolKindPrivate,
			newTestParams(t, "0.1", "0.002", "0.001"), maintainer,
		)
		require.NoError(t, err)
		err = p.Deposit(nil, decimalAmount(t, "10"), mathutil.Zero())
		require.NoError(t, err)
		before := p.Copy()

		_, err = p.SellBase(price(t), decimalAmount(t, "1"))
		require.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
		require.Equal(t, before, p)
	})

	t.Run("buy_with_fees_draining_base", func(t *testing.T) {
		p := newTestPool(t, domain.PoolKindPrivate, "0.1", "0.002", "0.001")
		before := p.Copy()

		// 9.970089730807577268 plus fees is one wei short of the reserve
		_, err := p.QueryBuyBase(price(t), amount(t, "9970089730807577268"))
		require.NoError(t, err)

		_, err = p.BuyBase(price(t), amount(t, "9970089730807577269"))
		require.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
		require.Equal(t, before, p)
	})
}
