// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)
package PowerSNMP

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	}
	return "unknown"
}

// BreakerConfig holds configuration for a circuit breaker.
// Zero fields take the DefaultBreakerConfig values.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the circuit
	RecoveryTimeout  time.Duration // time in open state before a trial call
	CallTimeout      time.Duration // upper bound of a single guarded call
}

// DefaultBreakerConfig returns 5 failures / 30s recovery / 5s per call.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: SNMP_BREAKERDEFAULTFAILURES,
		RecoveryTimeout:  SNMP_BREAKERDEFAULTRECOVERY,
		CallTimeout:      SNMP_BREAKERDEFAULTCALLTIMOUT,
	}
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	d := DefaultBreakerConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = d.RecoveryTimeout
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	return c
}

// BreakerStats is a snapshot of a breaker.
type BreakerStats struct {
	Key                 string
	State               CircuitState
	ConsecutiveFailures int
	OpenedAt            time.Time
	Successes           uint64
	Failures            uint64
	Rejections          uint64
}

// CircuitBreaker guards calls to one target.
//
// States:
//   - closed: calls pass; FailureThreshold consecutive failures open the circuit
//   - open: calls fail with ErrCircuitOpen without running until RecoveryTimeout
//     has passed since opening; the next call then becomes the half-open trial
//   - half_open: exactly one trial runs, others are rejected; success closes,
//     failure re-opens with a fresh opening time
//
// Every state change happens under one mutex, so concurrent callers see a
// single state machine.
type CircuitBreaker struct {
	key     string
	config  BreakerConfig
	clock   clock.Clock
	logger  *zap.Logger
	metrics *Metrics

	mu                  sync.Mutex
	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
	trialInFlight       bool
	successes           uint64
	failures            uint64
	rejections          uint64
}

// BreakerOption configures a CircuitBreaker.
type BreakerOption func(*CircuitBreaker)

// WithClock replaces the wall clock (clock.NewMock() in tests).
func WithClock(c clock.Clock) BreakerOption {
	return func(cb *CircuitBreaker) {
		if c != nil {
			cb.clock = c
		}
	}
}

func WithBreakerLogger(l *zap.Logger) BreakerOption {
	return func(cb *CircuitBreaker) {
		if l != nil {
			cb.logger = l
		}
	}
}

func WithBreakerMetrics(m *Metrics) BreakerOption {
	return func(cb *CircuitBreaker) { cb.metrics = m }
}

// NewCircuitBreaker creates a closed breaker for key.
func NewCircuitBreaker(key string, cfg BreakerConfig, opts ...BreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		key:    key,
		config: cfg.withDefaults(),
		clock:  clock.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cb)
	}
	cb.logger = cb.logger.With(zap.String("breaker", key))
	return cb
}

func (cb *CircuitBreaker) Key() string { return cb.key }

func (cb *CircuitBreaker) Config() BreakerConfig { return cb.config }

// State returns the current state without triggering the open → half_open move.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Stats() BreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return BreakerStats{
		Key:                 cb.key,
		State:               cb.state,
		ConsecutiveFailures: cb.consecutiveFailures,
		OpenedAt:            cb.openedAt,
		Successes:           cb.successes,
		Failures:            cb.failures,
		Rejections:          cb.rejections,
	}
}

// Reset closes the circuit and clears counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != CircuitClosed {
		cb.transition(CircuitClosed)
	}
	cb.consecutiveFailures = 0
	cb.openedAt = time.Time{}
	cb.trialInFlight = false
	cb.successes, cb.failures, cb.rejections = 0, 0, 0
}

// transition must be called with mu held.
func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	cb.state = to
	cb.logger.Info("circuit breaker state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("consecutive_failures", cb.consecutiveFailures))
	cb.metrics.breakerTransition(cb.key, from, to)
}

// acquire admits or rejects a call. trial is true for the half-open probe.
func (cb *CircuitBreaker) acquire() (trial bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case CircuitOpen:
		if cb.clock.Now().Sub(cb.openedAt) < cb.config.RecoveryTimeout {
			return false, cb.reject()
		}
		cb.transition(CircuitHalfOpen)
		cb.trialInFlight = true
		return true, nil
	case CircuitHalfOpen:
		if cb.trialInFlight {
			return false, cb.reject()
		}
		cb.trialInFlight = true
		return true, nil
	}
	return false, nil
}

func (cb *CircuitBreaker) reject() error {
	cb.rejections++
	cb.metrics.breakerRejection(cb.key)
	return fmt.Errorf("%w: %s", ErrCircuitOpen, cb.key)
}

type callOutcome int

const (
	outcomeNeutral callOutcome = iota
	outcomeSuccess
	outcomeFailure
)

func (cb *CircuitBreaker) record(trial bool, outcome callOutcome) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.trialInFlight = false
	}
	switch outcome {
	case outcomeSuccess:
		cb.successes++
		switch {
		case cb.state == CircuitClosed:
			cb.consecutiveFailures = 0
		case trial && cb.state == CircuitHalfOpen:
			cb.consecutiveFailures = 0
			cb.openedAt = time.Time{}
			cb.transition(CircuitClosed)
		}
	case outcomeFailure:
		cb.failures++
		switch {
		case cb.state == CircuitClosed:
			cb.consecutiveFailures++
			if cb.consecutiveFailures >= cb.config.FailureThreshold {
				cb.openedAt = cb.clock.Now()
				cb.transition(CircuitOpen)
			}
		case trial && cb.state == CircuitHalfOpen:
			cb.consecutiveFailures++
			cb.openedAt = cb.clock.Now()
			cb.transition(CircuitOpen)
		}
	}
}

// defaultIsFailure counts breaker-relevant categories as failures.
func defaultIsFailure(err error) bool {
	return BreakerRelevant(ClassifyError(err, ClassifyContext{}))
}

// Execute runs op through the breaker.
//
// Returns ErrCircuitOpen (op not invoked) while the circuit is open,
// an ErrTimeout-wrapped error when op outlives CallTimeout (counted as a
// failure), or op's own error. Validation, codec and exception errors and
// cancellation of ctx by the caller leave the breaker untouched; a ctx that
// is already done returns its error without running op.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	return cb.ExecuteWith(ctx, nil, op)
}

// ExecuteWith is Execute with a custom failure predicate.
func (cb *CircuitBreaker) ExecuteWith(ctx context.Context, isFailure func(error) bool, op func(ctx context.Context) error) error {
	return cb.execute(ctx, cb.config.CallTimeout, isFailure, op)
}

// execute is ExecuteWith bounded by timeout instead of CallTimeout.
// A caller context that is already done never takes the half-open trial.
func (cb *CircuitBreaker) execute(ctx context.Context, timeout time.Duration, isFailure func(error) bool, op func(ctx context.Context) error) error {
	if err := ctxDone(ctx); err != nil {
		return err
	}
	if isFailure == nil {
		isFailure = defaultIsFailure
	}
	trial, err := cb.acquire()
	if err != nil {
		return err
	}
	err = cb.run(ctx, timeout, op)
	switch {
	case err == nil:
		cb.record(trial, outcomeSuccess)
	case ctxDone(ctx) != nil, errors.Is(err, ErrCircuitOpen):
		cb.record(trial, outcomeNeutral)
	case isFailure(err):
		cb.record(trial, outcomeFailure)
	default:
		cb.record(trial, outcomeNeutral)
	}
	return err
}

// ctxDone returns ctx.Err() once ctx.Done() is closed and nil before that.
// clock.Mock contexts set Err from a goroutine, it is only read after Done.
func ctxDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// run bounds op by timeout. op runs in its own goroutine so a call that
// ignores its context still returns on time; the result channel is buffered
// and the late goroutine exits without blocking.
func (cb *CircuitBreaker) run(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	callCtx, cancel := cb.clock.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("guarded call panicked: %v", r)
			}
		}()
		done <- op(callCtx)
	}()

	select {
	case err := <-done:
		if err != nil && ctxDone(ctx) == nil && errors.Is(ctxDone(callCtx), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			return fmt.Errorf("%w: call exceeded %s: %w", ErrTimeout, timeout, err)
		}
		return err
	case <-callCtx.Done():
		if err := ctxDone(ctx); err != nil {
			return err
		}
		return fmt.Errorf("%w: call exceeded %s", ErrTimeout, timeout)
	}
}

// Call runs op through cb and returns its result.
//
// Example:
//
//	sysDescr, err := Call(ctx, cb, func(ctx context.Context) ([]VarBind, error) {
//	    return client.Get(ctx, target, sysDescrOID)
//	})
func Call[T any](ctx context.Context, cb *CircuitBreaker, op func(ctx context.Context) (T, error)) (T, error) {
	return callWith(ctx, cb, cb.config.CallTimeout, nil, op)
}

// callWith hands the result over a channel: after a timeout op may still be
// running and must not write into caller variables.
func callWith[T any](ctx context.Context, cb *CircuitBreaker, timeout time.Duration, isFailure func(error) bool, op func(ctx context.Context) (T, error)) (T, error) {
	results := make(chan T, 1)
	err := cb.execute(ctx, timeout, isFailure, func(ctx context.Context) error {
		r, err := op(ctx)
		if err != nil {
			return err
		}
		results <- r
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return <-results, nil
}
