package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"

	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/internal/core/ports"
)

// RegistryService owns the known shard set and keeps reserve snapshots
// reasonably fresh. Snapshots are refreshed on read when older than the
// configured TTL, and pushed through the optional reserve feeder channel.
type RegistryService interface {
	AddShard(ctx context.Context, shard *domain.Shard) error
	GetShard(ctx context.Context, id string) (*domain.Shard, error)
	GetShardsForPair(ctx context.Context, pair domain.Pair) ([]domain.Shard, error)
	GetAllShards(ctx context.Context) ([]domain.Shard, error)
	// TokenGraph returns the adjacency of the token graph restricted to
	// active shards: for each token key, the distinct neighbor tokens.
	TokenGraph(ctx context.Context) (map[string][]domain.Token, error)
	// StartFeed begins consuming the reserve feeder, if one was provided.
	StartFeed(ctx context.Context) error
	Stop()
}

type registryService struct {
	shardRepository domain.ShardRepository
	reserveFetcher  ports.ReserveFetcher
	reserveFeeder   ports.ReserveFeeder
	breaker         *gobreaker.CircuitBreaker
	limiter         ratelimit.Limiter
	reserveTTL      time.Duration
}

// NewRegistryService returns a registry backed by the given repository and
// reserve collaborators. feeder may be nil when running pull-only; fetcher
// may be nil when running feed-only, in which case stale snapshots are
// served as they are.
func NewRegistryService(
	shardRepository domain.ShardRepository,
	reserveFetcher ports.ReserveFetcher,
	reserveFeeder ports.ReserveFeeder,
	reserveTTL time.Duration,
	fetchRatePerSecond int,
) RegistryService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "reserve-fetcher",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests > 10 && ratio >= 0.6
		},
	})
	return &registryService{
		shardRepository: shardRepository,
		reserveFetcher:  reserveFetcher,
		reserveFeeder:   reserveFeeder,
		breaker:         breaker,
		limiter:         ratelimit.New(fetchRatePerSecond),
		reserveTTL:      reserveTTL,
	}
}

func (s *registryService) AddShard(ctx context.Context, shard *domain.Shard) error {
	if err := s.shardRepository.AddShard(ctx, shard); err != nil {
		return err
	}
	log.Debugf("registry: added shard %s for pair %s", shard.Id, shard.Pair.Key())
	return nil
}

func (s *registryService) GetShard(ctx context.Context, id string) (*domain.Shard, error) {
	shard, err := s.shardRepository.GetShard(ctx, id)
	if err != nil {
		return nil, err
	}
	if shard.IsStale(s.reserveTTL, time.Now()) {
		s.refreshShard(ctx, shard.Id)
		return s.shardRepository.GetShard(ctx, id)
	}
	return shard, nil
}

func (s *registryService) GetShardsForPair(
	ctx context.Context, pair domain.Pair,
) ([]domain.Shard, error) {
	shards, err := s.shardRepository.GetShardsForPair(ctx, pair)
	if err != nil {
		return nil, err
	}
	if len(shards) == 0 {
		return nil, ErrNoShardsForPair
	}

	now := time.Now()
	staleIds := make([]string, 0, len(shards))
	for _, shard := range shards {
		if shard.IsStale(s.reserveTTL, now) {
			staleIds = append(staleIds, shard.Id)
		}
	}
	if len(staleIds) > 0 {
		eg, egCtx := errgroup.WithContext(ctx)
		for _, id := range staleIds {
			shardId := id
			eg.Go(func() error {
				s.refreshShard(egCtx, shardId)
				return nil
			})
		}
		// refreshShard never propagates errors, stale snapshots are
		// served instead.
		eg.Wait()
		return s.shardRepository.GetShardsForPair(ctx, pair)
	}
	return shards, nil
}

func (s *registryService) GetAllShards(ctx context.Context) ([]domain.Shard, error) {
	return s.shardRepository.GetAllShards(ctx)
}

func (s *registryService) TokenGraph(
	ctx context.Context,
) (map[string][]domain.Token, error) {
	shards, err := s.shardRepository.GetAllShards(ctx)
	if err != nil {
		return nil, err
	}

	type edgeSet map[string]domain.Token
	adjacency := make(map[string]edgeSet)
	addEdge := func(from, to domain.Token) {
		if adjacency[from.String()] == nil {
			adjacency[from.String()] = edgeSet{}
		}
		adjacency[from.String()][to.String()] = to
	}
	for _, shard := range shards {
		if !shard.IsActive() {
			continue
		}
		addEdge(shard.Pair.TokenA, shard.Pair.TokenB)
		addEdge(shard.Pair.TokenB, shard.Pair.TokenA)
	}

	graph := make(map[string][]domain.Token, len(adjacency))
	for key, neighbors := range adjacency {
		for _, token := range neighbors {
			graph[key] = append(graph[key], token)
		}
	}
	return graph, nil
}

func (s *registryService) StartFeed(ctx context.Context) error {
	if s.reserveFeeder == nil {
		return nil
	}
	if err := s.reserveFeeder.Start(); err != nil {
		return err
	}
	go s.consumeFeed(ctx)
	return nil
}

func (s *registryService) Stop() {
	if s.reserveFeeder != nil {
		s.reserveFeeder.Stop()
	}
}

func (s *registryService) consumeFeed(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-s.reserveFeeder.FeedChan():
			if !ok {
				return
			}
			s.applySnapshot(ctx, snapshot)
		}
	}
}

func (s *registryService) applySnapshot(
	ctx context.Context, snapshot ports.ReserveSnapshot,
) {
	err := s.shardRepository.UpdateShard(
		ctx, snapshot.ShardId,
		func(shard *domain.Shard) (*domain.Shard, error) {
			if err := shard.ApplySnapshot(
				snapshot.ReserveA, snapshot.ReserveB, snapshot.AsOf,
			); err != nil {
				return nil, err
			}
			return shard, nil
		},
	)
	if err != nil && err != domain.ErrShardStaleSnapshot {
		log.Warnf(
			"registry: failed to apply snapshot for shard %s: %v",
			snapshot.ShardId, err,
		)
	}
}

// refreshShard fetches a fresh snapshot behind the rate limiter and circuit
// breaker. Failures are logged and swallowed: the caller keeps serving the
// stale snapshot, which the optimistic execution bound tolerates.
func (s *registryService) refreshShard(ctx context.Context, shardId string) {
	if s.reserveFetcher == nil {
		return
	}
	s.limiter.Take()

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.reserveFetcher.FetchReserves(ctx, shardId)
	})
	if err != nil {
		reserveRefreshFailures.Inc()
		log.Warnf("registry: reserve refresh failed for shard %s: %v", shardId, err)
		return
	}

	snapshot := res.(*ports.ReserveSnapshot)
	s.applySnapshot(ctx, *snapshot)
}
