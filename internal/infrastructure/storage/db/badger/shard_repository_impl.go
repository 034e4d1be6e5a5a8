package dbbadger

import (
	"context"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/samm-network/samm-daemon/internal/core/domain"
)

type shardRepositoryImpl struct {
	db *DbManager
}

// NewShardRepositoryImpl initializes a badger implementation of the
// domain.ShardRepository.
func NewShardRepositoryImpl(db *DbManager) domain.ShardRepository {
	return shardRepositoryImpl{db: db}
}

func (r shardRepositoryImpl) AddShard(
	_ context.Context, shard *domain.Shard,
) error {
	if err := r.db.Store.Insert(shard.Id, *shard); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrShardAlreadyExists
		}
		return err
	}
	return nil
}

func (r shardRepositoryImpl) GetShard(
	_ context.Context, id string,
) (*domain.Shard, error) {
	return r.getShard(id)
}

func (r shardRepositoryImpl) GetShardsForPair(
	_ context.Context, pair domain.Pair,
) ([]domain.Shard, error) {
	var shards []domain.Shard
	query := badgerhold.Where("Pair").Eq(pair)
	if err := r.db.Store.Find(&shards, query); err != nil {
		return nil, err
	}
	sortShardsById(shards)
	return shards, nil
}

func (r shardRepositoryImpl) GetAllShards(
	_ context.Context,
) ([]domain.Shard, error) {
	var shards []domain.Shard
	if err := r.db.Store.Find(&shards, nil); err != nil {
		return nil, err
	}
	sortShardsById(shards)
	return shards, nil
}

func (r shardRepositoryImpl) UpdateShard(
	ctx context.Context, id string,
	updateFn func(shard *domain.Shard) (*domain.Shard, error),
) error {
	currentShard, err := r.getShard(id)
	if err != nil {
		return err
	}

	updatedShard, err := updateFn(currentShard)
	if err != nil {
		return err
	}

	return r.db.Store.Update(id, *updatedShard)
}

func (r shardRepositoryImpl) getShard(id string) (*domain.Shard, error) {
	var shard domain.Shard
	if err := r.db.Store.Get(id, &shard); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrShardNotFound
		}
		return nil, err
	}
	return &shard, nil
}

func sortShardsById(shards []domain.Shard) {
	sort.Slice(shards, func(i, j int) bool {
		return shards[i].Id < shards[j].Id
	})
}
