package report

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"strings"
	"sync"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrBreakerOpen is returned while the narrative service is tripped.
var ErrBreakerOpen = eris.New("report: circuit breaker open")

// BreakerState is the circuit breaker state.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

// String returns the state name.
func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// GuardConfig tunes retries and the circuit breaker around narrative calls.
type GuardConfig struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	FailureThreshold int
	ResetTimeout     time.Duration
}

// DefaultGuardConfig returns the production retry/breaker settings.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MaxAttempts:      3,
		InitialBackoff:   500 * time.Millisecond,
		MaxBackoff:       5 * time.Second,
		FailureThreshold: 3,
		ResetTimeout:     60 * time.Second,
	}
}

// guard retries transient failures and stops calling a service that keeps
// failing. A call that exhausts its retries counts as one breaker failure.
type guard struct {
	cfg GuardConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	now      func() time.Time
}

func newGuard(cfg GuardConfig) *guard {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 1
	}
	return &guard{cfg: cfg, now: time.Now}
}

// State returns the current breaker state, promoting open to half-open once
// the reset timeout has elapsed.
func (g *guard) State() BreakerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentState()
}

func (g *guard) currentState() BreakerState {
	if g.state == StateOpen && g.now().Sub(g.openedAt) >= g.cfg.ResetTimeout {
		g.state = StateHalfOpen
	}
	return g.state
}

func (g *guard) allow() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentState() == StateOpen {
		return ErrBreakerOpen
	}
	return nil
}

func (g *guard) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		g.failures = 0
		g.state = StateClosed
		return
	}

	g.failures++
	if g.state == StateHalfOpen || g.failures >= g.cfg.FailureThreshold {
		if g.state != StateOpen {
			zap.L().Warn("report: circuit breaker opened",
				zap.Int("failures", g.failures),
				zap.Error(err),
			)
		}
		g.state = StateOpen
		g.openedAt = g.now()
	}
}

// call runs fn through the breaker with retries on transient errors.
func call[T any](ctx context.Context, g *guard, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := g.allow(); err != nil {
		return zero, err
	}

	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := backoff(g.cfg, attempt)
			zap.L().Debug("report: retrying",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", wait),
				zap.Error(lastErr),
			)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		val, err := fn(ctx)
		if err == nil {
			g.record(nil)
			return val, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isTransient(err) {
			break
		}
	}

	g.record(lastErr)
	return zero, lastErr
}

// backoff is exponential with full jitter in the upper half of the window.
func backoff(cfg GuardConfig, attempt int) time.Duration {
	d := cfg.InitialBackoff << (attempt - 1)
	if cfg.MaxBackoff > 0 && (d > cfg.MaxBackoff || d <= 0) {
		d = cfg.MaxBackoff
	}
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(rand.Int64N(int64(half)+1))
}

// isTransient reports whether a failed narrative call is worth retrying:
// rate limits, server errors, overload, and network timeouts.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 408, 409, 429, 500, 502, 503, 504, 529:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection reset", "connection refused", "broken pipe", "unexpected eof", "i/o timeout"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
