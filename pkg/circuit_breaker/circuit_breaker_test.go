package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	cb "github.com/Astemirdum/library-rental/pkg/circuit_breaker"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"
)

var errService = errors.New("service error")

func ok() error   { return nil }
func fail() error { return errService }

func TestCircuitBreaker_Lifecycle(t *testing.T) {
	t.Parallel()
	clk := testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	breaker := cb.New(cb.Config{
		RecordLength:     4,
		Timeout:          10 * time.Second,
		Percentile:       0.5,
		RecoveryRequests: 2,
	}, clk)

	for i := 0; i < 10; i++ {
		require.NoError(t, breaker.Call(ok))
	}
	require.Equal(t, cb.Closed, breaker.State())

	require.ErrorIs(t, breaker.Call(fail), errService)
	require.Equal(t, cb.Closed, breaker.State())
	require.ErrorIs(t, breaker.Call(fail), errService)
	require.Equal(t, cb.Open, breaker.State())

	called := false
	err := breaker.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, cb.ErrOpen)
	require.False(t, called)

	clk.Advance(11 * time.Second)
	require.NoError(t, breaker.Call(ok))
	require.Equal(t, cb.HalfOpen, breaker.State())
	require.NoError(t, breaker.Call(ok))
	require.Equal(t, cb.Closed, breaker.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()
	clk := testclock.NewClock(time.Now())
	breaker := cb.New(cb.Config{RecordLength: 2, Timeout: time.Second, Percentile: 0.5, RecoveryRequests: 3}, clk)

	require.Error(t, breaker.Call(fail))
	require.Equal(t, cb.Open, breaker.State())

	clk.Advance(2 * time.Second)
	require.ErrorIs(t, breaker.Call(fail), errService)
	require.Equal(t, cb.Open, breaker.State())
	require.ErrorIs(t, breaker.Call(ok), cb.ErrOpen)
}

func TestCircuitBreaker_IgnoredErrors(t *testing.T) {
	t.Parallel()
	breaker := cb.New(cb.Config{RecordLength: 2, Timeout: time.Minute, Percentile: 0.5, RecoveryRequests: 1}, nil)
	notFound := errors.New("not found")
	isNotFound := func(err error) bool { return errors.Is(err, notFound) }

	for i := 0; i < 5; i++ {
		require.ErrorIs(t, breaker.Call(func() error { return notFound }, isNotFound), notFound)
	}
	require.Equal(t, cb.Closed, breaker.State())

	breaker.Reset()
	require.Equal(t, cb.Closed, breaker.State())
}
