package ports

import "context"

// HopCall is the request for executing a single hop against a shard.
type HopCall struct {
	ShardId string
	// AmountOut is the exact output the hop must produce.
	AmountOut uint64
	// MaximalAmountIn bounds the input the executor may spend. Exceeding it
	// must fail the hop instead of spending more.
	MaximalAmountIn uint64
	TokenIn         string
	TokenOut        string
	Recipient       string
}

// HopReceipt reports the actual amounts moved by a hop.
type HopReceipt struct {
	AmountIn  uint64
	AmountOut uint64
	Fee       uint64
}

// SwapExecutor executes single hops on chain. One call per hop; the
// coordinator awaits each result before proceeding.
//
// Implementations own the fund-atomicity obligation for multi-hop paths:
// either they compose all hops of an attempt into one chain transaction, or
// they provide a compensating refund for hops already settled when a later
// hop fails. The coordinator only guarantees truthful reporting of which
// hops completed.
type SwapExecutor interface {
	ExecuteHop(ctx context.Context, call HopCall) (*HopReceipt, error)
}
