package main

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Goden-Gun/vis-server/pkg/auth"
	"github.com/Goden-Gun/vis-server/pkg/bootstrap"
	"github.com/Goden-Gun/vis-server/pkg/config"
	"github.com/Goden-Gun/vis-server/pkg/kafka"
	"github.com/Goden-Gun/vis-server/pkg/metrics"
	"github.com/Goden-Gun/vis-server/pkg/server"
	vissignal "github.com/Goden-Gun/vis-server/pkg/signal"

	log "github.com/Goden-Gun/vis-server/pkg/logger"
)

const serviceName = "vis-server"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &config.Config{}
	secrets := []config.SecretDefinition{
		{Name: "VIS_TOKEN_SECRET", Target: &cfg.Token.SecretKey},
		{Name: "VIS_REDIS_PASSWORD", Target: &cfg.Redis.Password},
		{Name: "VIS_KAFKA_PASSWORD", Target: &cfg.Kafka.Password},
	}
	if err := config.LoadConfigWithSecrets(cfg, secrets, config.LoadOptions{EnvPrefix: "VIS", AllowNoConfig: true}); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyDefaults()

	if err := bootstrap.InitLoggerWithFile(cfg.Log, serviceName); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	shutdownTracing, err := bootstrap.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.WithError(err).Warn("tracing disabled")
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer shutdownTracing(context.Background())

	stat := metrics.New()
	stat.Register()
	stat.RefreshUptime(ctx)

	tree := vissignal.New(vissignal.DefaultSchema())

	var attempts auth.AttemptStore
	if cfg.Redis.Enabled {
		redisClient, err := bootstrap.InitRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("init redis: %v", err)
		}
		defer redisClient.Close()
		attempts = auth.NewRedisAttemptStore(redisClient, auth.DefaultAttemptPrefix, cfg.Token.AttemptWindow.Duration())
	}

	authorizer := auth.New(auth.Config{
		Secret:        cfg.Token.SecretKey,
		TTL:           cfg.Token.TTL.Duration(),
		ClockSkew:     cfg.Token.ClockSkew.Duration(),
		MaxAttempts:   cfg.Token.MaxAttempts,
		AttemptWindow: cfg.Token.AttemptWindow.Duration(),
	}, attempts)

	srv := server.New(cfg.Server, tree, authorizer)
	srv.SetStat(stat)

	group, ctx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled {
		manager, err := bootstrap.InitKafka(cfg.Kafka)
		if err != nil {
			log.Fatalf("init kafka: %v", err)
		}
		defer manager.Close()
		manager.SetPublishObserver(stat)
		manager.SetConsumeObserver(stat)

		feed := kafka.NewFeed(manager, cfg.Kafka.Topic, cfg.Kafka.ConsumerGroup, tree)
		srv.SetEgress(feed)
		group.Go(func() error { return feed.Run(ctx) })
	}

	group.Go(func() error { return metrics.Serve(ctx, cfg.Metrics.Addr) })
	group.Go(func() error { return srv.Serve(ctx) })

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatalf("server exited: %v", err)
	}
	log.Info("server stopped")
}
