package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/samm-network/samm-daemon/internal/config"
	"github.com/samm-network/samm-daemon/internal/core/application"
	"github.com/samm-network/samm-daemon/internal/core/domain"
	"github.com/samm-network/samm-daemon/internal/core/ports"
	reservefeeder "github.com/samm-network/samm-daemon/internal/infrastructure/reserve-feeder"
	dbbadger "github.com/samm-network/samm-daemon/internal/infrastructure/storage/db/badger"
	"github.com/samm-network/samm-daemon/internal/infrastructure/storage/db/inmemory"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(config.GetLogLevel())

	shardRepository, closeRepo, err := openShardRepository()
	if err != nil {
		log.WithError(err).Fatal("error opening shard storage")
	}
	defer closeRepo()

	var feederSvc ports.ReserveFeeder
	if feedURL := config.GetString(config.FeedURLKey); feedURL != "" {
		feederSvc, err = reservefeeder.NewService(feedURL)
		if err != nil {
			log.WithError(err).Fatal("error connecting to reserve feed")
		}
	}

	registrySvc := application.NewRegistryService(
		shardRepository, nil, feederSvc,
		config.GetDuration(config.ReserveTTLKey),
		config.GetInt(config.FetchRatePerSecondKey),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if feederSvc != nil {
		if err := registrySvc.StartFeed(ctx); err != nil {
			log.WithError(err).Fatal("error starting reserve feed")
		}
		if err := subscribeKnownShards(ctx, registrySvc, feederSvc); err != nil {
			log.WithError(err).Fatal("error subscribing shards to reserve feed")
		}
	}
	defer registrySvc.Stop()

	go printStats(ctx, registrySvc)

	log.Info("daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("exiting")
}

func openShardRepository() (domain.ShardRepository, func(), error) {
	if config.GetString(config.DBTypeKey) == "inmemory" {
		return inmemory.NewShardRepositoryImpl(), func() {}, nil
	}

	db, err := dbbadger.NewDbManager(config.GetDbDir(), nil)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("error closing shard storage")
		}
	}
	return dbbadger.NewShardRepositoryImpl(db), closeFn, nil
}

func subscribeKnownShards(
	ctx context.Context,
	registrySvc application.RegistryService, feederSvc ports.ReserveFeeder,
) error {
	shards, err := registrySvc.GetAllShards(ctx)
	if err != nil {
		return err
	}
	if len(shards) == 0 {
		return nil
	}

	ids := make([]string, 0, len(shards))
	for _, shard := range shards {
		ids = append(ids, shard.Id)
	}
	return feederSvc.SubscribeShards(ids)
}

func printStats(ctx context.Context, registrySvc application.RegistryService) {
	interval := config.GetDuration(config.StatsIntervalKey)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			shards, err := registrySvc.GetAllShards(ctx)
			if err != nil {
				log.WithError(err).Warn("stats: error listing shards")
				continue
			}
			active := 0
			for _, shard := range shards {
				if shard.IsActive() {
					active++
				}
			}
			log.Infof("stats: %d shards known, %d active", len(shards), active)
		}
	}
}
