package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
	"go.uber.org/zap"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"

	pingTimeout = 5 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker answers whether the backing store can serve requests right now.
type Checker interface {
	Connected() bool
}

type Config struct {
	RetryInterval time.Duration `envconfig:"DB_RETRY_INTERVAL" default:"30s"`
	PingInterval  time.Duration `envconfig:"DB_PING_INTERVAL" default:"10s"`
}

type Monitor struct {
	pinger    Pinger
	clock     clock.Clock
	cfg       Config
	connected atomic.Bool
	log       *zap.Logger
}

func NewMonitor(pinger Pinger, cfg Config, clk clock.Clock, log *zap.Logger) *Monitor {
	return &Monitor{
		pinger: pinger,
		clock:  clk,
		cfg:    cfg,
		log:    log.Named("health"),
	}
}

func (m *Monitor) Connected() bool {
	return m.connected.Load()
}

func (m *Monitor) Status() string {
	return Status(m)
}

// Status reports the store state of c as it appears in health responses.
func Status(c Checker) string {
	if c.Connected() {
		return StatusConnected
	}
	return StatusDisconnected
}

// Connect pings the store and runs setup, retrying every RetryInterval until
// both succeed or ctx is done.
func (m *Monitor) Connect(ctx context.Context, setup func(ctx context.Context) error) error {
	return retry.Call(retry.CallArgs{
		Func: func() error {
			if err := m.ping(ctx); err != nil {
				return err
			}
			if setup != nil {
				if err := setup(ctx); err != nil {
					return err
				}
			}
			m.connected.Store(true)
			m.log.Info("store connected")
			return nil
		},
		NotifyFunc: func(err error, attempt int) {
			m.log.Warn("store connection failed, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Duration("retryIn", m.cfg.RetryInterval))
		},
		Attempts: retry.UnlimitedAttempts,
		Delay:    m.cfg.RetryInterval,
		Clock:    m.clock,
		Stop:     ctx.Done(),
	})
}

// Watch keeps the connection state current until ctx is done. It is meant to run
// after Connect returned successfully.
func (m *Monitor) Watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.clock.After(m.cfg.PingInterval):
			err := m.ping(ctx)
			was := m.connected.Swap(err == nil)
			switch {
			case err != nil && was:
				m.log.Error("store disconnected", zap.Error(err))
			case err == nil && !was:
				m.log.Info("store reconnected")
			}
		}
	}
}

func (m *Monitor) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return m.pinger.Ping(ctx)
}
