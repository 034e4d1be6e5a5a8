package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/samm-network/samm-daemon/internal/core/application"
	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/samm-network/samm-daemon/pkg/feecurve"
)

type tokenState struct {
	ChainID  string `json:"chain_id"`
	Address  string `json:"address"`
	Decimals uint   `json:"decimals"`
}

type shardState struct {
	Id          string `json:"id"`
	TokenA      string `json:"token_a"`
	TokenB      string `json:"token_b"`
	ReserveA    uint64 `json:"reserve_a"`
	ReserveB    uint64 `json:"reserve_b"`
	Beta1       int64  `json:"beta1"`
	RMin        uint64 `json:"rmin"`
	RMax        uint64 `json:"rmax"`
	C           uint64 `json:"c"`
	TradeFeeNum uint64 `json:"trade_fee_num"`
	TradeFeeDen uint64 `json:"trade_fee_den"`
	OwnerFeeNum uint64 `json:"owner_fee_num"`
	OwnerFeeDen uint64 `json:"owner_fee_den"`
	Inactive    bool   `json:"inactive"`
}

type snapshotState struct {
	Tokens map[string]tokenState `json:"tokens"`
	Shards []shardState          `json:"shards"`
}

// snapshotServices loads the snapshot file referenced by the top-level flag
// and assembles the application services on top of it.
type snapshotServices struct {
	tokens      map[string]domain.Token
	registrySvc application.RegistryService
	selectorSvc application.SelectorService
	routerSvc   application.RouterService
}

func loadSnapshot(ctx *cli.Context) (*snapshotServices, error) {
	file, err := ioutil.ReadFile(ctx.String("snapshot"))
	if err != nil {
		return nil, err
	}

	var state snapshotState
	if err := json.Unmarshal(file, &state); err != nil {
		return nil, err
	}

	tokens := make(map[string]domain.Token, len(state.Tokens))
	for name, ts := range state.Tokens {
		token, err := domain.NewToken(ts.ChainID, ts.Address, ts.Decimals)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", name, err)
		}
		tokens[name] = token
	}

	repo := inmemory.NewShardRepositoryImpl()
	now := time.Now()
	for _, ss := range state.Shards {
		tokenA, ok := tokens[ss.TokenA]
		if !ok {
			return nil, fmt.Errorf("shard %s: unknown token %s", ss.Id, ss.TokenA)
		}
		tokenB, ok := tokens[ss.TokenB]
		if !ok {
			return nil, fmt.Errorf("shard %s: unknown token %s", ss.Id, ss.TokenB)
		}
		pair, err := domain.NewPair(tokenA, tokenB)
		if err != nil {
			return nil, fmt.Errorf("shard %s: %w", ss.Id, err)
		}

		shard, err := domain.NewShard(
			ss.Id, pair,
			feecurve.CurveOpts{
				Beta1: ss.Beta1, RMin: ss.RMin, RMax: ss.RMax, C: ss.C,
			},
			feecurve.FeeOpts{
				TradeFeeNum: ss.TradeFeeNum, TradeFeeDen: ss.TradeFeeDen,
				OwnerFeeNum: ss.OwnerFeeNum, OwnerFeeDen: ss.OwnerFeeDen,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("shard %s: %w", ss.Id, err)
		}
		// Reserves are resolved against the shard's canonical pair order.
		reserveA, reserveB := ss.ReserveA, ss.ReserveB
		if !pair.TokenA.Equals(tokenA) {
			reserveA, reserveB = reserveB, reserveA
		}
		if err := shard.ApplySnapshot(reserveA, reserveB, now); err != nil {
			return nil, err
		}
		if ss.Inactive {
			shard.Deactivate()
		}
		if err := repo.AddShard(context.Background(), shard); err != nil {
			return nil, fmt.Errorf("shard %s: %w", ss.Id, err)
		}
	}

	registrySvc := application.NewRegistryService(repo, nil, nil, time.Hour, 1)
	selectorSvc := application.NewSelectorService(
		registrySvc, rand.New(rand.NewSource(time.Now().UnixNano())),
	)
	routerSvc := application.NewRouterService(
		registrySvc, selectorSvc,
		3, time.Minute, decimal.NewFromFloat(0.01),
	)

	return &snapshotServices{
		tokens:      tokens,
		registrySvc: registrySvc,
		selectorSvc: selectorSvc,
		routerSvc:   routerSvc,
	}, nil
}

func (s *snapshotServices) token(name string) (domain.Token, error) {
	token, ok := s.tokens[name]
	if !ok {
		return domain.Token{}, fmt.Errorf("unknown token: %s", name)
	}
	return token, nil
}
