package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/samm-network/samm-daemon/internal/core/domain"
)

// ShardRepositoryImpl represents an in memory storage for shard snapshots.
type ShardRepositoryImpl struct {
	shards       map[string]domain.Shard
	shardsByPair map[string][]string

	lock *sync.RWMutex
}

// NewShardRepositoryImpl returns a new empty ShardRepositoryImpl.
func NewShardRepositoryImpl() *ShardRepositoryImpl {
	return &ShardRepositoryImpl{
		shards:       map[string]domain.Shard{},
		shardsByPair: map[string][]string{},
		lock:         &sync.RWMutex{},
	}
}

func (r *ShardRepositoryImpl) AddShard(
	_ context.Context, shard *domain.Shard,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.shards[shard.Id]; ok {
		return domain.ErrShardAlreadyExists
	}
	r.shards[shard.Id] = *shard
	key := shard.Pair.Key()
	r.shardsByPair[key] = append(r.shardsByPair[key], shard.Id)
	sort.Strings(r.shardsByPair[key])
	return nil
}

func (r *ShardRepositoryImpl) GetShard(
	_ context.Context, id string,
) (*domain.Shard, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getShard(id)
}

func (r *ShardRepositoryImpl) GetShardsForPair(
	_ context.Context, pair domain.Pair,
) ([]domain.Shard, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	ids := r.shardsByPair[pair.Key()]
	shards := make([]domain.Shard, 0, len(ids))
	for _, id := range ids {
		shards = append(shards, r.shards[id])
	}
	return shards, nil
}

func (r *ShardRepositoryImpl) GetAllShards(
	_ context.Context,
) ([]domain.Shard, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	ids := make([]string, 0, len(r.shards))
	for id := range r.shards {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	shards := make([]domain.Shard, 0, len(ids))
	for _, id := range ids {
		shards = append(shards, r.shards[id])
	}
	return shards, nil
}

func (r *ShardRepositoryImpl) UpdateShard(
	_ context.Context, id string,
	updateFn func(shard *domain.Shard) (*domain.Shard, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	currentShard, err := r.getShard(id)
	if err != nil {
		return err
	}

	updatedShard, err := updateFn(currentShard)
	if err != nil {
		return err
	}

	r.shards[id] = *updatedShard
	return nil
}

func (r *ShardRepositoryImpl) getShard(id string) (*domain.Shard, error) {
	shard, ok := r.shards[id]
	if !ok {
		return nil, domain.ErrShardNotFound
	}
	return &shard, nil
}
