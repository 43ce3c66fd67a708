package main

import (
	"context"

	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var resetCmd = cli.Command{
	Name: "reset",
	Usage: "replace the params of a pool, withdraw funds and rebase its " +
		"targets",
	Flags: append([]cli.Flag{
		poolFlag(),
		&cli.StringFlag{
			Name:  "recipient",
			Usage: "the account receiving the withdrawn funds, the maintainer if empty",
		},
		&cli.StringFlag{
			Name:  "base_out",
			Usage: "the amount of base asset to withdraw",
		},
		&cli.StringFlag{
			Name:  "quote_out",
			Usage: "the amount of quote asset to withdraw",
		},
		&cli.StringFlag{
			Name:  "min_base_reserve",
			Usage: "abort if the base reserve is below this amount",
		},
		&cli.StringFlag{
			Name:  "min_quote_reserve",
			Usage: "abort if the quote reserve is below this amount",
		},
		&cli.StringFlag{
			Name:  "base_target",
			Usage: "the new base target, requires quote_target",
		},
		&cli.StringFlag{
			Name:  "quote_target",
			Usage: "the new quote target, requires base_target",
		},
	}, paramsFlags()...),
	Action: resetAction,
}

func resetAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	params, err := parseParams(ctx)
	if err != nil {
		return err
	}
	args := domain.ResetArgs{Params: params}

	if args.BaseOut, err = parseOptionalAmount(ctx, "base_out"); err != nil {
		return err
	}
	if args.QuoteOut, err = parseOptionalAmount(ctx, "quote_out"); err != nil {
		return err
	}
	if args.MinBaseReserve, err = parseOptionalAmount(ctx, "min_base_reserve"); err != nil {
		return err
	}
	if args.MinQuoteReserve, err = parseOptionalAmount(ctx, "min_quote_reserve"); err != nil {
		return err
	}
	if args.BaseTarget, err = parseOptionalAmount(ctx, "base_target"); err != nil {
		return err
	}
	if args.QuoteTarget, err = parseOptionalAmount(ctx, "quote_target"); err != nil {
		return err
	}

	p, err := svc.Reset(
		context.Background(), ctx.String("pool"), ctx.String("recipient"), args,
	)
	if err != nil {
		return err
	}

	return printJSON(ctx, newPoolView(p))
}
