package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-rental/library/config"
	"github.com/Astemirdum/library-rental/library/internal/events"
	"github.com/Astemirdum/library-rental/library/internal/handler"
	"github.com/Astemirdum/library-rental/library/internal/repository"
	"github.com/Astemirdum/library-rental/library/internal/repository/mongodb"
	"github.com/Astemirdum/library-rental/library/internal/repository/pg"
	"github.com/Astemirdum/library-rental/library/internal/service"
	"github.com/Astemirdum/library-rental/library/internal/sweeper"
	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/health"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/logger"
	mongoclient "github.com/Astemirdum/library-rental/pkg/mongodb"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	"github.com/Astemirdum/library-rental/pkg/s3"
	"github.com/Astemirdum/library-rental/pkg/server"
	"github.com/juju/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := newRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal("repository init", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	opts := []service.Option{service.WithClock(clock.WallClock)}
	if cfg.Kafka.Enable {
		producer, err := kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewSyncProducer", zap.Error(err))
		}
		if err = kafka.CreateTopics(cfg.Kafka, kafka.LoansTopic); err != nil {
			log.Warn("kafka.CreateTopics", zap.Error(err))
		}
		publisher := events.NewKafkaPublisher(producer, kafka.LoansTopic, log)
		opts = append(opts, service.WithPublisher(publisher))
		g.Go(func() error { return publisher.Run(gctx) })
	}
	if cfg.S3.Bucket != "" {
		covers, err := s3.NewCoverStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal("s3.NewCoverStore", zap.Error(err))
		}
		opts = append(opts, service.WithCoverStorage(covers))
	}

	svc := service.NewService(repo, auth.NewIssuer(cfg.Auth), log, opts...)
	monitor := health.NewMonitor(repo, cfg.Health, clock.WallClock, log)

	setup := func(ctx context.Context) error {
		if err := repo.Setup(ctx); err != nil {
			return err
		}
		if cfg.Admin.Email == "" {
			return nil
		}
		return svc.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	}
	g.Go(func() error {
		if err := monitor.Connect(gctx, setup); err != nil {
			if gctx.Err() != nil {
				return nil
			}
			return err
		}
		return monitor.Watch(gctx)
	})
	g.Go(func() error {
		return sweeper.New(svc, monitor, cfg.Sweeper, clock.WallClock, log).Run(gctx)
	})

	h := handler.New(svc, svc, svc, monitor, auth.NewIssuer(cfg.Auth), log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ", zap.String("addr", cfg.Server.Addr()))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-gctx.Done():
		log.Error("background worker stopped, shutting down")
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err = g.Wait(); err != nil {
		log.Error("background workers", zap.Error(err))
	}
	if err = repo.Close(closeCtx); err != nil {
		log.Error("repo.Close", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

// newRepository builds the selected store without dialing it. The health
// monitor owns the first connection attempt.
func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		db, err := mongoclient.NewMongoDB(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return mongodb.NewRepository(db, log), nil
	default:
		pool, err := postgres.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return pg.NewRepository(pool, log), nil
	}
}
