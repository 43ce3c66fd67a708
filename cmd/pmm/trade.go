package main

import (
	"context"

	"github.com/tdex-network/tdex-pmm/internal/core/application"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var (
	tradeCmd = cli.Command{
		Name:  "trade",
		Usage: "trade with a pool",
		Subcommands: []*cli.Command{
			tradeSellBaseCmd, tradeSellQuoteCmd, tradeBuyBaseCmd,
		},
	}

	tradeSellBaseCmd = &cli.Command{
		Name:  "sell-base",
		Usage: "sell some base asset for quote asset",
		Flags: tradeFlags("base"),
		Action: func(ctx *cli.Context) error {
			return tradeAction(ctx, application.SideSellBase)
		},
	}
	tradeSellQuoteCmd = &cli.Command{
		Name:  "sell-quote",
		Usage: "sell some quote asset for base asset",
		Flags: tradeFlags("quote"),
		Action: func(ctx *cli.Context) error {
			return tradeAction(ctx, application.SideSellQuote)
		},
	}
	tradeBuyBaseCmd = &cli.Command{
		Name:  "buy-base",
		Usage: "buy an exact amount of base asset with quote asset",
		Flags: []cli.Flag{
			poolFlag(),
			traderFlag(),
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "the amount of base asset to buy",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "max_pay",
				Usage: "the maximum quote amount paid, the trade fails if above",
			},
		},
		Action: func(ctx *cli.Context) error {
			return tradeAction(ctx, application.SideBuyBase)
		},
	}
)

func traderFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "trader",
		Usage:    "the account paying and receiving the funds",
		Required: true,
	}
}

func tradeFlags(asset string) []cli.Flag {
	return []cli.Flag{
		poolFlag(),
		traderFlag(),
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount of " + asset + " asset to sell",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "min_receive",
			Usage: "the minimum amount accepted in exchange, the trade fails if below",
		},
	}
}

func tradeAction(ctx *cli.Context, side string) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	amount, err := mathutil.ParseDecimal(ctx.String("amount"))
	if err != nil {
		return err
	}

	trade, limitFlag := svc.SellBase, "min_receive"
	switch side {
	case application.SideSellQuote:
		trade = svc.SellQuote
	case application.SideBuyBase:
		trade, limitFlag = svc.BuyBase, "max_pay"
	}
	limit, err := parseOptionalAmount(ctx, limitFlag)
	if err != nil {
		return err
	}

	result, err := trade(
		context.Background(), ctx.String("pool"), ctx.String("trader"),
		amount, limit,
	)
	if err != nil {
		return err
	}

	return printJSON(ctx, newTradeView(result))
}
