package application

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

func (s *poolService) QuerySellBase(
	ctx context.Context, poolID string, payBase *uint256.Int,
) (*domain.TradeResult, error) {
	return s.query(ctx, poolID, SideSellBase, payBase)
}

func (s *poolService) QuerySellQuote(
	ctx context.Context, poolID string, payQuote *uint256.Int,
) (*domain.TradeResult, error) {
	return s.query(ctx, poolID, SideSellQuote, payQuote)
}

func (s *poolService) SellBase(
	ctx context.Context, poolID, trader string, payBase, minReceive *uint256.Int,
) (*domain.TradeResult, error) {
	return s.trade(ctx, poolID, trader, SideSellBase, payBase, minReceive)
}

func (s *poolService) SellQuote(
	ctx context.Context, poolID, trader string, payQuote, minReceive *uint256.Int,
) (*domain.TradeResult, error) {
	return s.trade(ctx, poolID, trader, SideSellQuote, payQuote, minReceive)
}

func (s *poolService) QueryBuyBase(
	ctx context.Context, poolID string, amount *uint256.Int,
) (*domain.TradeResult, error) {
	return s.query(ctx, poolID, SideBuyBase, amount)
}

func (s *poolService) BuyBase(
	ctx context.Context, poolID, trader string, amount, maxPay *uint256.Int,
) (*domain.TradeResult, error) {
	return s.trade(ctx, poolID, trader, SideBuyBase, amount, maxPay)
}

func (s *poolService) query(
	ctx context.Context, poolID, side string, amount *uint256.Int,
) (*domain.TradeResult, error) {
	pool, err := s.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	price, err := s.getPrice(ctx, poolID)
	if err != nil {
		return nil, err
	}

	var result *domain.TradeResult
	switch side {
	case SideSellBase:
		result, err = pool.QuerySellBase(price, amount)
	case SideSellQuote:
		result, err = pool.QuerySellQuote(price, amount)
	default:
		result, err = pool.QueryBuyBase(price, amount)
	}
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", poolID, err)
	}
	return result, nil
}

// trade runs a trade of the given side. limit is the minimum amount received
// when selling and the maximum quote paid when buying base, nil for none.
func (s *poolService) trade(
	ctx context.Context, poolID, trader, side string,
	amount, limit *uint256.Int,
) (*domain.TradeResult, error) {
	if len(trader) <= 0 {
		return nil, ErrMissingAccount
	}
	price, err := s.getPrice(ctx, poolID)
	if err != nil {
		return nil, err
	}

	defer s.observeDuration(side, time.Now())

	var assetIn, assetOut string
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var result *domain.TradeResult
			err := s.repoManager.PoolRepository().UpdatePool(
				ctx, poolID, func(p *domain.Pool) (*domain.Pool, error) {
					var err error
					switch side {
					case SideSellBase:
						assetIn, assetOut = p.BaseAsset, p.QuoteAsset
						result, err = p.SellBase(price, amount)
					case SideSellQuote:
						assetIn, assetOut = p.QuoteAsset, p.BaseAsset
						result, err = p.SellQuote(price, amount)
					default:
						assetIn, assetOut = p.QuoteAsset, p.BaseAsset
						result, err = p.BuyBase(price, amount)
					}
					if err != nil {
						return nil, err
					}
					if err := checkSlippage(side, result, limit); err != nil {
						return nil, err
					}

					ledger := s.repoManager.LedgerRepository()
					if err := ledger.Transfer(
						ctx, trader, p.Account(), assetIn, result.Pay,
					); err != nil {
						return nil, err
					}
					if err := ledger.Transfer(
						ctx, p.Account(), trader, assetOut, result.Receive,
					); err != nil {
						return nil, err
					}
					if err := ledger.Transfer(
						ctx, p.Account(), p.Maintainer, assetOut, result.MtFee,
					); err != nil {
						return nil, err
					}
					return p, nil
				},
			)
			return result, err
		},
	)
	if err != nil {
		return nil, s.rejected(side, poolID, err)
	}

	result := res.(*domain.TradeResult)
	s.metrics.observeTrade(
		poolID, side, assetIn, assetOut, result.Pay, result.LpFee, result.MtFee,
	)
	log.WithFields(log.Fields{
		"pool":    poolID,
		"side":    side,
		"trader":  trader,
		"pay":     mathutil.FormatDecimal(result.Pay),
		"receive": mathutil.FormatDecimal(result.Receive),
		"rStatus": result.NewRStatus,
	}).Info("trade executed")
	return result, nil
}

func checkSlippage(side string, result *domain.TradeResult, limit *uint256.Int) error {
	if limit == nil {
		return nil
	}
	if side == SideBuyBase {
		if result.Pay.Gt(limit) {
			return fmt.Errorf(
				"%w: pay %s > %s", ErrSlippageExceeded,
				mathutil.FormatDecimal(result.Pay), mathutil.FormatDecimal(limit),
			)
		}
		return nil
	}
	if result.Receive.Lt(limit) {
		return fmt.Errorf(
			"%w: %s < %s", ErrSlippageExceeded,
			mathutil.FormatDecimal(result.Receive), mathutil.FormatDecimal(limit),
		)
	}
	return nil
}

func (s *poolService) FlashLoan(
	ctx context.Context, poolID, borrower string, baseOut, quoteOut *uint256.Int,
	handler FlashLoanHandler,
) (*domain.FlashLoanResult, error) {
	if len(borrower) <= 0 {
		return nil, ErrMissingAccount
	}
	price, err := s.getPrice(ctx, poolID)
	if err != nil {
		return nil, err
	}

	defer s.observeDuration(opFlashLoan, time.Now())

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var result *domain.FlashLoanResult
			err := s.repoManager.PoolRepository().UpdatePool(
				ctx, poolID, func(p *domain.Pool) (*domain.Pool, error) {
					ledger := s.repoManager.LedgerRepository()
					account := p.Account()

					settle := func(
						baseOut, quoteOut *uint256.Int,
					) (*domain.Balances, error) {
						if err := ledger.Transfer(
							ctx, account, borrower, p.BaseAsset, baseOut,
						); err != nil {
							return nil, err
						}
						if err := ledger.Transfer(
							ctx, account, borrower, p.QuoteAsset, quoteOut,
						); err != nil {
							return nil, err
						}
						if handler != nil {
							if err := handler(ctx, ledger, baseOut, quoteOut); err != nil {
								return nil, err
							}
						}
						base, err := ledger.GetBalance(ctx, account, p.BaseAsset)
						if err != nil {
							return nil, err
						}
						quote, err := ledger.GetBalance(ctx, account, p.QuoteAsset)
						if err != nil {
							return nil, err
						}
						return &domain.Balances{Base: base, Quote: quote}, nil
					}

					var err error
					if result, err = p.FlashLoan(
						price, baseOut, quoteOut, settle,
					); err != nil {
						return nil, err
					}
					if err := ledger.Transfer(
						ctx, account, p.Maintainer, p.BaseAsset, result.BaseMtFee,
					); err != nil {
						return nil, err
					}
					if err := ledger.Transfer(
						ctx, account, p.Maintainer, p.QuoteAsset, result.QuoteMtFee,
					); err != nil {
						return nil, err
					}
					return p, nil
				},
			)
			return result, err
		},
	)
	if err != nil {
		s.metrics.FlashLoans.WithLabelValues(poolID, FlashLoanFailed).Inc()
		return nil, s.rejected(opFlashLoan, poolID, err)
	}

	result := res.(*domain.FlashLoanResult)
	outcome := FlashLoanRepaid
	if result.Swap != nil {
		outcome = FlashLoanSwapped
	}
	s.metrics.FlashLoans.WithLabelValues(poolID, outcome).Inc()
	log.WithFields(log.Fields{
		"pool":     poolID,
		"borrower": borrower,
		"baseOut":  mathutil.FormatDecimal(baseOut),
		"quoteOut": mathutil.FormatDecimal(quoteOut),
		"outcome":  outcome,
	}).Info("flash loan settled")
	return result, nil
}
