package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/samm-network/samm-daemon/internal/core/domain"
)

var smallestshards = cli.Command{
	Name:  "smallest-shards",
	Usage: "list a pair's shards by ascending reserve, fillup candidate first",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "token-a", Usage: "first pair token name", Required: true},
		&cli.StringFlag{Name: "token-b", Usage: "second pair token name", Required: true},
		&cli.StringFlag{Name: "reference", Usage: "optional reference token for the reserve metric"},
	},
	Action: smallestshardsAction,
}

func smallestshardsAction(ctx *cli.Context) error {
	svcs, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	tokenA, err := svcs.token(ctx.String("token-a"))
	if err != nil {
		return err
	}
	tokenB, err := svcs.token(ctx.String("token-b"))
	if err != nil {
		return err
	}

	var referenceToken *domain.Token
	if name := ctx.String("reference"); name != "" {
		token, err := svcs.token(name)
		if err != nil {
			return err
		}
		referenceToken = &token
	}

	shards, err := svcs.selectorSvc.GetSmallestShards(
		context.Background(), tokenA, tokenB, referenceToken,
	)
	if err != nil {
		return err
	}

	for i, shard := range shards {
		metric := shard.ReserveSum()
		if referenceToken != nil {
			metric, _ = shard.ReserveOf(*referenceToken)
		}
		fmt.Printf(
			"%d. %s  metric=%d  reserves=%d/%d\n",
			i+1, shard.Id, metric, shard.ReserveA, shard.ReserveB,
		)
	}
	return nil
}
