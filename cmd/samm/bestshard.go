package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var bestshard = cli.Command{
	Name:  "best-shard",
	Usage: "quote every shard of a pair and show the cheapest one",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "token-in", Usage: "input token name", Required: true},
		&cli.StringFlag{Name: "token-out", Usage: "output token name", Required: true},
		&cli.Uint64Flag{Name: "amount-out", Usage: "desired output amount", Required: true},
	},
	Action: bestshardAction,
}

func bestshardAction(ctx *cli.Context) error {
	svcs, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	tokenIn, err := svcs.token(ctx.String("token-in"))
	if err != nil {
		return err
	}
	tokenOut, err := svcs.token(ctx.String("token-out"))
	if err != nil {
		return err
	}

	reply, err := svcs.selectorSvc.GetBestShard(
		context.Background(), tokenIn, tokenOut, ctx.Uint64("amount-out"),
	)
	if err != nil {
		return err
	}

	fmt.Printf("best shard: %s\n\n", reply.Best.Shard.Id)
	for _, quote := range reply.AllShards {
		marker := " "
		if quote.Shard.Id == reply.Best.Shard.Id {
			marker = "*"
		}
		fmt.Printf(
			"%s %s  in=%d  out=%d  tradeFee=%d  ownerFee=%d  impact=%s\n",
			marker, quote.Shard.Id,
			quote.AmountIn, quote.AmountOut, quote.TradeFee, quote.OwnerFee,
			quote.PriceImpact.StringFixed(6),
		)
	}
	return nil
}
