package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/internal/core/ports"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

// PoolService is the entry point for operating and trading with pools. Every
// mutation runs in a single repository transaction that also moves the funds
// in the ledger, so that a pool's account always holds its reserves.
type PoolService interface {
	CreatePool(
		ctx context.Context, baseAsset, quoteAsset string,
		kind domain.PoolKind, params domain.Params,
	) (*domain.Pool, error)
	GetPool(ctx context.Context, poolID string) (*domain.Pool, error)
	ListPools(ctx context.Context) ([]domain.Pool, error)
	MidPrice(ctx context.Context, poolID string) (*uint256.Int, error)
	Deposit(
		ctx context.Context, poolID, account string, base, quote *uint256.Int,
	) (*domain.Pool, error)
	UpdatePrice(ctx context.Context, poolID string, price *uint256.Int) error
	QuerySellBase(
		ctx context.Context, poolID string, payBase *uint256.Int,
	) (*domain.TradeResult, error)
	QuerySellQuote(
		ctx context.Context, poolID string, payQuote *uint256.Int,
	) (*domain.TradeResult, error)
	SellBase(
		ctx context.Context, poolID, trader string, payBase, minReceive *uint256.Int,
	) (*domain.TradeResult, error)
	SellQuote(
		ctx context.Context, poolID, trader string, payQuote, minReceive *uint256.Int,
	) (*domain.TradeResult, error)
	QueryBuyBase(
		ctx context.Context, poolID string, amount *uint256.Int,
	) (*domain.TradeResult, error)
	BuyBase(
		ctx context.Context, poolID, trader string, amount, maxPay *uint256.Int,
	) (*domain.TradeResult, error)
	FlashLoan(
		ctx context.Context, poolID, borrower string, baseOut, quoteOut *uint256.Int,
		handler FlashLoanHandler,
	) (*domain.FlashLoanResult, error)
	Reset(
		ctx context.Context, poolID, recipient string, args domain.ResetArgs,
	) (*domain.Pool, error)
	GetBalance(ctx context.Context, account string) (map[string]*uint256.Int, error)
	Mint(ctx context.Context, account, asset string, amount *uint256.Int) error
}

// FlashLoanHandler runs the borrower's effects once the borrowed amounts have
// been credited to its account. It must pay the pool back through ledger
// using ctx.
type FlashLoanHandler func(
	ctx context.Context, ledger domain.LedgerRepository,
	baseOut, quoteOut *uint256.Int,
) error

type poolService struct {
	repoManager ports.RepoManager
	priceSource ports.PriceSource
	maintainer  string
	metrics     *Metrics
}

// NewPoolService returns a PoolService crediting maintainer fees of new pools
// to the given maintainer account. Metrics are not registered if nil.
func NewPoolService(
	repoManager ports.RepoManager, priceSource ports.PriceSource,
	maintainer string, metrics *Metrics,
) (PoolService, error) {
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}
	if priceSource == nil {
		return nil, ErrMissingPriceSource
	}
	if len(maintainer) <= 0 {
		return nil, ErrMissingMaintainer
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &poolService{repoManager, priceSource, maintainer, metrics}, nil
}

func (s *poolService) CreatePool(
	ctx context.Context, baseAsset, quoteAsset string,
	kind domain.PoolKind, params domain.Params,
) (*domain.Pool, error) {
	if err := validateAssetString(baseAsset); err != nil {
		return nil, err
	}
	if err := validateAssetString(quoteAsset); err != nil {
		return nil, err
	}

	pool, err := domain.NewPool(baseAsset, quoteAsset, kind, params, s.maintainer)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.PoolRepository().AddPool(ctx, pool); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":  pool.ID,
		"base":  baseAsset,
		"quote": quoteAsset,
		"kind":  kind,
		"k":     mathutil.FormatDecimal(params.K),
	}).Info("created pool")
	return pool, nil
}

func (s *poolService) GetPool(
	ctx context.Context, poolID string,
) (*domain.Pool, error) {
	return s.repoManager.PoolRepository().GetPool(ctx, poolID)
}

func (s *poolService) ListPools(ctx context.Context) ([]domain.Pool, error) {
	return s.repoManager.PoolRepository().GetAllPools(ctx)
}

func (s *poolService) MidPrice(
	ctx context.Context, poolID string,
) (*uint256.Int, error) {
	pool, err := s.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	price, err := s.getPrice(ctx, poolID)
	if err != nil {
		return nil, err
	}
	mid, err := pool.MidPrice(price)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", poolID, err)
	}
	return mid, nil
}

func (s *poolService) Deposit(
	ctx context.Context, poolID, account string, base, quote *uint256.Int,
) (*domain.Pool, error) {
	if len(account) <= 0 {
		return nil, ErrMissingAccount
	}
	pool, err := s.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	// Balanced private pools rebase their targets without pricing.
	var price *uint256.Int
	if pool.Kind == domain.PoolKindVending || pool.RStatus != mm.RStatusOne {
		if price, err = s.getPrice(ctx, poolID); err != nil {
			return nil, err
		}
	}

	defer s.observeDuration(opDeposit, time.Now())

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var updated *domain.Pool
			err := s.repoManager.PoolRepository().UpdatePool(
				ctx, poolID, func(p *domain.Pool) (*domain.Pool, error) {
					if err := p.Deposit(price, base, quote); err != nil {
						return nil, err
					}
					ledger := s.repoManager.LedgerRepository()
					if err := ledger.Transfer(
						ctx, account, p.Account(), p.BaseAsset, base,
					); err != nil {
						return nil, err
					}
					if err := ledger.Transfer(
						ctx, account, p.Account(), p.QuoteAsset, quote,
					); err != nil {
						return nil, err
					}
					updated = p
					return p, nil
				},
			)
			return updated, err
		},
	)
	if err != nil {
		return nil, s.rejected(opDeposit, poolID, err)
	}

	updated := res.(*domain.Pool)
	log.WithFields(log.Fields{
		"pool":    poolID,
		"account": account,
		"base":    mathutil.FormatDecimal(base),
		"quote":   mathutil.FormatDecimal(quote),
	}).Info("deposited funds")
	return updated, nil
}

func (s *poolService) UpdatePrice(
	ctx context.Context, poolID string, price *uint256.Int,
) error {
	if price == nil || price.IsZero() {
		return fmt.Errorf(
			"%w: reference price must be positive", domain.ErrInvalidParameter,
		)
	}
	if _, err := s.GetPool(ctx, poolID); err != nil {
		return err
	}
	if err := s.repoManager.PriceRepository().UpdatePrice(
		ctx, poolID, price,
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"pool":  poolID,
		"price": mathutil.FormatDecimal(price),
	}).Debug("updated reference price")
	return nil
}

func (s *poolService) Reset(
	ctx context.Context, poolID, recipient string, args domain.ResetArgs,
) (*domain.Pool, error) {
	defer s.observeDuration(opReset, time.Now())

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var updated *domain.Pool
			err := s.repoManager.PoolRepository().UpdatePool(
				ctx, poolID, func(p *domain.Pool) (*domain.Pool, error) {
					if err := p.Reset(args); err != nil {
						return nil, err
					}
					to := recipient
					if len(to) <= 0 {
						to = p.Maintainer
					}
					ledger := s.repoManager.LedgerRepository()
					if err := ledger.Transfer(
						ctx, p.Account(), to, p.BaseAsset, args.BaseOut,
					); err != nil {
						return nil, err
					}
					if err := ledger.Transfer(
						ctx, p.Account(), to, p.QuoteAsset, args.QuoteOut,
					); err != nil {
						return nil, err
					}
					updated = p
					return p, nil
				},
			)
			return updated, err
		},
	)
	if err != nil {
		return nil, s.rejected(opReset, poolID, err)
	}

	updated := res.(*domain.Pool)
	log.WithFields(log.Fields{
		"pool":    poolID,
		"rStatus": updated.RStatus,
		"k":       mathutil.FormatDecimal(updated.Params.K),
	}).Info("reset pool")
	return updated, nil
}

func (s *poolService) GetBalance(
	ctx context.Context, account string,
) (map[string]*uint256.Int, error) {
	return s.repoManager.LedgerRepository().GetBalances(ctx, account)
}

func (s *poolService) Mint(
	ctx context.Context, account, asset string, amount *uint256.Int,
) error {
	if len(account) <= 0 {
		return ErrMissingAccount
	}
	if err := validateAssetString(asset); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := s.repoManager.LedgerRepository().Credit(
		ctx, account, asset, amount,
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"account": account,
		"asset":   asset,
		"amount":  mathutil.FormatDecimal(amount),
	}).Debug("minted funds")
	return nil
}

func (s *poolService) getPrice(
	ctx context.Context, poolID string,
) (*uint256.Int, error) {
	price, err := s.priceSource.GetPrice(ctx, poolID)
	if err != nil {
		if errors.Is(err, domain.ErrPriceNotFound) {
			return nil, fmt.Errorf("pool %s: %w", poolID, err)
		}
		log.WithError(err).Warnf("failed to get price for pool %s", poolID)
		return nil, fmt.Errorf("%w: %s", ErrPriceUnavailable, err)
	}
	return price, nil
}

func (s *poolService) rejected(operation, poolID string, err error) error {
	s.metrics.RejectedOps.WithLabelValues(operation).Inc()
	log.WithError(err).WithField("pool", poolID).Debugf("%s rejected", operation)
	return fmt.Errorf("pool %s: %w", poolID, err)
}

func (s *poolService) observeDuration(operation string, start time.Time) {
	s.metrics.OperationDuration.WithLabelValues(operation).Observe(
		time.Since(start).Seconds(),
	)
}
