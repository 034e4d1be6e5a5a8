package ports

import (
	"context"
	"errors"
	"time"
)

// ErrReserveNotFound is returned by fetchers for unknown shard ids.
var ErrReserveNotFound = errors.New("reserves not found for shard")

// ReserveSnapshot is a point-in-time view of a shard's reserves as reported
// by the chain collaborator.
type ReserveSnapshot struct {
	ShardId  string
	ReserveA uint64
	ReserveB uint64
	AsOf     time.Time
}

// ReserveFetcher pulls reserve snapshots on demand. Implementations talk to
// a chain node or indexer; results may be stale and the registry treats them
// as such.
type ReserveFetcher interface {
	FetchReserves(ctx context.Context, shardId string) (*ReserveSnapshot, error)
}

// ReserveFeeder pushes reserve snapshots as they change on chain.
type ReserveFeeder interface {
	SubscribeShards(shardIds []string) error
	UnSubscribeShards(shardIds []string) error

	Start() error
	Stop()

	FeedChan() chan ReserveSnapshot
}
