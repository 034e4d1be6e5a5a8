package domain

import "context"

// ShardRepository is the storage contract for shard snapshots.
type ShardRepository interface {
	// AddShard inserts a new shard. Returns ErrShardAlreadyExists on
	// duplicate ids.
	AddShard(ctx context.Context, shard *Shard) error
	// GetShard returns the shard with the given id or ErrShardNotFound.
	GetShard(ctx context.Context, id string) (*Shard, error)
	// GetShardsForPair returns all shards serving the given pair, sorted by
	// ascending id.
	GetShardsForPair(ctx context.Context, pair Pair) ([]Shard, error)
	// GetAllShards returns every known shard, sorted by ascending id.
	GetAllShards(ctx context.Context) ([]Shard, error)
	// UpdateShard applies updateFn to the stored shard under the
	// repository's write lock and persists the returned value.
	UpdateShard(
		ctx context.Context, id string,
		updateFn func(shard *Shard) (*Shard, error),
	) error
}
