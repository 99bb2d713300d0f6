package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenMaxReq   = 2
)

// CircuitBreakerConfig configures a breaker. Zero numeric fields take the
// package defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	// OnStateChange is called after every transition, outside the breaker lock.
	OnStateChange func(from, to CircuitState)
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return c
}

// CircuitBreaker guards calls to a flaky dependency. All methods are safe on a
// nil receiver, which behaves as an always-closed breaker.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state     CircuitState
	failures  int
	openedAt  time.Time
	probes    int
	successes int
	now       func() time.Time
}

// NewCircuitBreaker builds a breaker regardless of cfg.Enabled.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return NewCircuitBreaker(cfg)
}

// Execute runs fn behind the breaker. An error trips the breaker only when
// countsAsFailure reports true for it; a nil countsAsFailure counts every error.
func (b *CircuitBreaker) Execute(fn func() error, countsAsFailure func(error) bool) error {
	_, err := Do(b, func() (struct{}, error) { return struct{}{}, fn() }, countsAsFailure)
	return err
}

// Do is Execute for calls that produce a value.
func Do[T any](b *CircuitBreaker, fn func() (T, error), countsAsFailure func(error) bool) (T, error) {
	var zero T
	if err := b.Allow(); err != nil {
		return zero, err
	}

	value, err := fn()
	if err != nil && (countsAsFailure == nil || countsAsFailure(err)) {
		b.RecordFailure()
		return value, err
	}
	b.RecordSuccess()
	return value, err
}

func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}

	var err error
	b.update(func() {
		if b.state == CircuitStateOpen {
			if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
				err = ErrCircuitOpen
				return
			}
			b.moveTo(CircuitStateHalfOpen)
		}
		if b.state == CircuitStateHalfOpen {
			if b.probes >= b.cfg.HalfOpenMaxReq {
				err = ErrCircuitOpen
				return
			}
			b.probes++
		}
	})
	return err
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}

	b.update(func() {
		switch b.state {
		case CircuitStateClosed:
			b.failures = 0
		case CircuitStateHalfOpen:
			b.probes = max(b.probes-1, 0)
			b.successes++
			if b.successes >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
				b.moveTo(CircuitStateClosed)
			}
		}
	})
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}

	b.update(func() {
		switch b.state {
		case CircuitStateClosed:
			b.failures++
			if b.failures >= b.cfg.FailureThreshold {
				b.moveTo(CircuitStateOpen)
			}
		case CircuitStateHalfOpen:
			b.moveTo(CircuitStateOpen)
		case CircuitStateOpen:
			b.openedAt = b.now()
		}
	})
}

// State reports half_open once the open timeout has elapsed, before the next
// Allow performs the transition.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

// update runs fn under the lock and reports any state transition it made.
func (b *CircuitBreaker) update(fn func()) {
	b.mu.Lock()
	from := b.state
	fn()
	to := b.state
	b.mu.Unlock()

	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}

func (b *CircuitBreaker) moveTo(state CircuitState) {
	b.state = state
	b.probes = 0
	b.successes = 0
	switch state {
	case CircuitStateOpen:
		b.openedAt = b.now()
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	}
}
