package circuit_breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/juju/clock"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// RecordLength is the size of the sliding window of recent outcomes.
	RecordLength int `envconfig:"CB_RECORD_LENGTH" default:"10"`
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration `envconfig:"CB_TIMEOUT" default:"10s"`
	// Percentile of failures within the window that trips the breaker.
	Percentile float64 `envconfig:"CB_PERCENTILE" default:"0.5"`
	// RecoveryRequests is the number of consecutive half-open successes needed to close.
	RecoveryRequests int `envconfig:"CB_RECOVERY_REQUESTS" default:"3"`
}

type CircuitBreaker struct {
	mu    sync.Mutex
	cfg   Config
	clock clock.Clock

	state       State
	openedAt    time.Time
	window      []bool
	pos         int
	recoveredOK int
}

func New(cfg Config, clk clock.Clock) *CircuitBreaker {
	if cfg.RecordLength <= 0 {
		cfg.RecordLength = 1
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &CircuitBreaker{
		cfg:    cfg,
		clock:  clk,
		state:  Closed,
		window: make([]bool, cfg.RecordLength),
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Call runs fn unless the breaker is open. Errors for which ignore returns
// true are passed through without counting as failures.
func (cb *CircuitBreaker) Call(fn func() error, ignore ...func(error) bool) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.clock.Now().Sub(cb.openedAt) < cb.cfg.Timeout {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = HalfOpen
		cb.recoveredOK = 0
	}
	cb.mu.Unlock()

	err := fn()
	failed := err != nil
	for _, skip := range ignore {
		if failed && skip(err) {
			failed = false
		}
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.window[cb.pos] = failed
	cb.pos = (cb.pos + 1) % len(cb.window)

	if cb.state == HalfOpen {
		if failed {
			cb.trip()
			return err
		}
		cb.recoveredOK++
		if cb.recoveredOK >= cb.cfg.RecoveryRequests {
			cb.reset()
		}
		return err
	}

	fails := 0
	for _, f := range cb.window {
		if f {
			fails++
		}
	}
	if float64(fails)/float64(len(cb.window)) >= cb.cfg.Percentile {
		cb.trip()
	}
	return err
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *CircuitBreaker) trip() {
	cb.state = Open
	cb.recoveredOK = 0
	cb.openedAt = cb.clock.Now()
}

func (cb *CircuitBreaker) reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.recoveredOK = 0
	cb.pos = 0
	cb.state = Closed
}
