package main

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var (
	poolCmd = cli.Command{
		Name:  "pool",
		Usage: "create and inspect pools",
		Subcommands: []*cli.Command{
			poolCreateCmd, poolListCmd, poolInfoCmd,
		},
	}

	poolCreateCmd = &cli.Command{
		Name:  "create",
		Usage: "create a new empty pool",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "base_asset",
				Usage:    "the base asset of the pool",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "quote_asset",
				Usage:    "the quote asset of the pool",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "the kind of pool, one of private, vending",
				Value: domain.PoolKindPrivate.String(),
			},
		}, paramsFlags()...),
		Action: poolCreateAction,
	}
	poolListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list all pools",
		Action: poolListAction,
	}
	poolInfoCmd = &cli.Command{
		Name:   "info",
		Usage:  "get info about a pool",
		Flags:  []cli.Flag{poolFlag()},
		Action: poolInfoAction,
	}
)

func poolCreateAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	kind, err := domain.ParsePoolKind(ctx.String("kind"))
	if err != nil {
		return err
	}
	params, err := parseParams(ctx)
	if err != nil {
		return err
	}

	p, err := svc.CreatePool(
		context.Background(),
		ctx.String("base_asset"), ctx.String("quote_asset"), kind, params,
	)
	if err != nil {
		return err
	}

	return printJSON(ctx, newPoolView(p))
}

func poolListAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	pools, err := svc.ListPools(context.Background())
	if err != nil {
		return err
	}

	views := make([]poolView, len(pools))
	eg := &errgroup.Group{}
	for i := range pools {
		i := i
		views[i] = newPoolView(&pools[i])
		if !pools[i].IsFunded() {
			continue
		}

		eg.Go(func() error {
			mid, err := svc.MidPrice(context.Background(), pools[i].ID)
			if err != nil {
				if errors.Is(err, domain.ErrPriceNotFound) {
					return nil
				}
				return err
			}
			views[i].MidPrice = mathutil.FormatDecimal(mid)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	return printJSON(ctx, views)
}

func poolInfoAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	p, err := svc.GetPool(context.Background(), ctx.String("pool"))
	if err != nil {
		return err
	}

	return printJSON(ctx, newPoolView(p))
}
