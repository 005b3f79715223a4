package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/health"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/logger"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	"github.com/Astemirdum/library-rental/pkg/server"
	"github.com/Astemirdum/library-rental/stats/config"
	"github.com/Astemirdum/library-rental/stats/internal/handler"
	"github.com/Astemirdum/library-rental/stats/internal/repository"
	"github.com/Astemirdum/library-rental/stats/internal/service"
	"github.com/juju/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "stats")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()
	repo := repository.NewRepository(db, log)
	svc := service.NewService(repo, log)
	monitor := health.NewMonitor(repo, cfg.Health, clock.WallClock, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := monitor.Connect(gctx, repo.Setup); err != nil {
			if gctx.Err() != nil {
				return nil
			}
			return err
		}
		// events are only consumed once the schema exists
		g.Go(func() error {
			return kafka.Consume(gctx, consumer, handler.NewConsumer(svc.Record, clock.WallClock, log), kafka.LoansTopic)
		})
		return monitor.Watch(gctx)
	})

	h := handler.New(svc, monitor, auth.NewIssuer(cfg.Auth), log)
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
	if err = consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err = g.Wait(); err != nil {
		log.Error("background workers", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
	return nil
}
