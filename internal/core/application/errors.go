package application

import "errors"

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	// ErrInvalidMaxHops ...
	ErrInvalidMaxHops = errors.New("max hops must be greater than 0")
	// ErrSameToken ...
	ErrSameToken = errors.New("input and output token must differ")

	// ErrNoLiquidity is returned when every candidate shard was filtered
	// out, either inactive or too small for the requested output.
	ErrNoLiquidity = errors.New("no shard with enough liquidity")
	// ErrAllQuotesFailed is returned when every remaining shard's curve
	// call failed.
	ErrAllQuotesFailed = errors.New("all shard quotes failed")
	// ErrNoPathFound is returned when the bounded search exhausted the hop
	// budget without producing a viable path. It is distinct from an empty
	// successful result on purpose.
	ErrNoPathFound = errors.New("no path found between tokens")
	// ErrNoShardsForPair ...
	ErrNoShardsForPair = errors.New("no shards registered for pair")
)
