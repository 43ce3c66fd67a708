package main

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/application"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var flashloanCmd = cli.Command{
	Name: "flashloan",
	Usage: "borrow funds from a pool and pay back the given amounts within " +
		"the same operation",
	Flags: []cli.Flag{
		poolFlag(),
		&cli.StringFlag{
			Name:     "borrower",
			Usage:    "the account receiving the loan and paying it back",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "base_out",
			Usage: "the amount of base asset to borrow",
		},
		&cli.StringFlag{
			Name:  "quote_out",
			Usage: "the amount of quote asset to borrow",
		},
		&cli.StringFlag{
			Name:  "repay_base",
			Usage: "the amount of base asset paid back to the pool",
		},
		&cli.StringFlag{
			Name:  "repay_quote",
			Usage: "the amount of quote asset paid back to the pool",
		},
	},
	Action: flashloanAction,
}

func flashloanAction(ctx *cli.Context) error {
	svc, err := getPoolService(ctx)
	if err != nil {
		return err
	}

	amounts := make(map[string]*uint256.Int)
	for _, flag := range []string{"base_out", "quote_out", "repay_base", "repay_quote"} {
		if amounts[flag], err = parseAmount(ctx, flag); err != nil {
			return err
		}
	}

	poolID, borrower := ctx.String("pool"), ctx.String("borrower")
	p, err := svc.GetPool(context.Background(), poolID)
	if err != nil {
		return err
	}

	repay := func(
		ctx context.Context, ledger domain.LedgerRepository,
		_, _ *uint256.Int,
	) error {
		if err := ledger.Transfer(
			ctx, borrower, p.Account(), p.BaseAsset, amounts["repay_base"],
		); err != nil {
			return err
		}
		return ledger.Transfer(
			ctx, borrower, p.Account(), p.QuoteAsset, amounts["repay_quote"],
		)
	}

	result, err := svc.FlashLoan(
		context.Background(), poolID, borrower,
		amounts["base_out"], amounts["quote_out"],
		application.FlashLoanHandler(repay),
	)
	if err != nil {
		return err
	}

	return printJSON(ctx, newFlashLoanView(result))
}
