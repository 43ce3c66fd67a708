package main

import (
	"context"

	"github.com/tdex-network/tdex-pmm/internal/core/application"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var (
	quoteCmd = cli.Command{
		Name:  "quote",
		Usage: "preview a trade without executing it",
		Subcommands: []*cli.Command{
			quoteSellBaseCmd, quoteSellQuoteCmd, quoteBuyBaseCmd,
		},
	}

	quoteSellBaseCmd = &cli.Command{
		Name:  "sell-base",
		Usage: "preview the quote amount received for selling some base asset",
		Flags: []cli.Flag{
			poolFlag(),
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "the amount of base asset to sell",
				Required: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			return quoteAction(ctx, application.SideSellBase)
		},
	}
	quoteSellQuoteCmd = &cli.Command{
		Name:  "sell-quote",
		Usage: "preview the base amount received for selling some quote asset",
		Flags: []cli.Flag{
			poolFlag(),
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "the amount of quote asset to sell",
				Required: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			return quoteAction(ctx, application.SideSellQuote)
		},
	}
	quoteBuyBaseCmd = &cli.Command{
		Name:  "buy-base",
		Usage: "preview the quote amount paid for buying some base asset",
		Flags: []cli.Flag{
			poolFlag(),
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "the amount of base asset to buy",
				Required: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			return quoteAction(ctx, application.SideBuyBase)
		},
	}
)

func quoteAction(ctx *cli.Context, side string) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	amount, err := mathutil.ParseDecimal(ctx.String("amount"))
	if err != nil {
		return err
	}

	poolID := ctx.String("pool")
	query := svc.QuerySellBase
	switch side {
	case application.SideSellQuote:
		query = svc.QuerySellQuote
	case application.SideBuyBase:
		query = svc.QueryBuyBase
	}

	result, err := query(context.Background(), poolID, amount)
	if err != nil {
		return err
	}

	return printJSON(ctx, newTradeView(result))
}
