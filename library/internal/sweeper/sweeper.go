// Package sweeper periodically persists the overdue status of open loans.
package sweeper

import (
	"context"
	"time"

	"github.com/Astemirdum/library-rental/pkg/health"
	"github.com/juju/clock"
	"go.uber.org/zap"
)

type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int, error)
}

type Config struct {
	Interval time.Duration `envconfig:"OVERDUE_SWEEP_INTERVAL" default:"1h"`
}

type Sweeper struct {
	marker OverdueMarker
	store  health.Checker
	clock  clock.Clock
	cfg    Config
	log    *zap.Logger
}

func New(marker OverdueMarker, store health.Checker, cfg Config, clk clock.Clock, log *zap.Logger) *Sweeper {
	return &Sweeper{
		marker: marker,
		store:  store,
		clock:  clk,
		cfg:    cfg,
		log:    log.Named("sweeper"),
	}
}

// Run sweeps every Interval until ctx is done. Passes are skipped while the
// store is disconnected.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.cfg.Interval <= 0 {
		s.log.Info("overdue sweeper disabled")
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(s.cfg.Interval):
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if !s.store.Connected() {
		s.log.Debug("store disconnected, skipping pass")
		return
	}
	n, err := s.marker.MarkOverdue(ctx)
	if err != nil {
		s.log.Error("mark overdue", zap.Error(err))
		return
	}
	s.log.Debug("pass finished", zap.Int("promoted", n))
}
