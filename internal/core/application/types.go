package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/samm-network/samm-daemon/internal/core/domain"
)

// ShardQuote is the outcome of quoting one shard for an exact-output swap.
type ShardQuote struct {
	Shard       domain.Shard
	AmountIn    uint64
	AmountOut   uint64
	TradeFee    uint64
	OwnerFee    uint64
	PriceImpact decimal.Decimal
}

// BestShardReply carries the cheapest shard for a swap along with every
// per-shard quote that was computed, so callers can display alternatives.
type BestShardReply struct {
	Best      ShardQuote
	AllShards []ShardQuote
}

// DiscoverPathsRequest ...
type DiscoverPathsRequest struct {
	TokenIn       domain.Token
	TokenOut      domain.Token
	DesiredOutput uint64
	// MaxHops bounds the search depth. Zero means the configured default.
	MaxHops int
	// SlippageTolerance discards paths whose quoted total price impact
	// already exceeds it. Zero disables the filter.
	SlippageTolerance decimal.Decimal
}

// SearchMetadata describes the work done by one discovery request.
// PathsEvaluated counts every candidate token sequence examined and is
// always >= len(reply.Paths).
type SearchMetadata struct {
	PathsEvaluated  int
	PoolsConsidered int
	SearchTimeMs    int64
}

// DiscoverPathsReply ...
type DiscoverPathsReply struct {
	// Paths sorted by descending efficiency score.
	Paths []domain.Path
	// BestPath is Paths[0].
	BestPath *domain.Path
	// Quote wraps BestPath with the configured validity window.
	Quote    *domain.Quote
	Metadata SearchMetadata
}

// ExecuteRequest ...
type ExecuteRequest struct {
	Quote       domain.Quote
	UserAddress string
	Recipient   string
	Deadline    time.Time
	MaxSlippage decimal.Decimal
}
