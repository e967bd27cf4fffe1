package circuitbreaker

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
)

type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// ErrOpen is returned by Allow while the breaker rejects requests.
var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	Name string `json:"name"`
	// FailThreshold is the number of consecutive failures that opens the breaker.
	FailThreshold int `json:"fail_threshold"`
	// SuccessThreshold is the number of consecutive half-open successes that closes it again.
	SuccessThreshold int           `json:"success_threshold"`
	Timeout          time.Duration `json:"timeout"`
	// OnStateChange is called on every transition.
	OnStateChange func(name string, from, to State) `json:"-"`
}

type Breaker struct {
	cb      *gobreaker.TwoStepCircuitBreaker
	metrics *Metrics
}

type Metrics struct {
	totalRequests    atomic.Int64
	successRequests  atomic.Int64
	failedRequests   atomic.Int64
	rejectedRequests atomic.Int64
	stateChanges     atomic.Int32
}

func New(config Config) *Breaker {
	b := &Breaker{metrics: &Metrics{}}
	if config.Name == "" {
		config.Name = "binance-api"
	}
	failThreshold := uint32(max(config.FailThreshold, 1))

	b.cb = gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: uint32(max(config.SuccessThreshold, 1)),
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.metrics.stateChanges.Add(1)
			if config.OnStateChange != nil {
				config.OnStateChange(name, fromGobreaker(from), fromGobreaker(to))
			}
		},
	})
	return b
}

// Allow asks permission for one request. On success the caller must report
// the outcome through done.
func (b *Breaker) Allow() (done func(success bool), err error) {
	b.metrics.totalRequests.Add(1)
	report, err := b.cb.Allow()
	if err != nil {
		b.metrics.rejectedRequests.Add(1)
		return nil, ErrOpen
	}
	return func(success bool) {
		if success {
			b.metrics.successRequests.Add(1)
		} else {
			b.metrics.failedRequests.Add(1)
		}
		report(success)
	}, nil
}

func (b *Breaker) State() State {
	return fromGobreaker(b.cb.State())
}

func (b *Breaker) Name() string {
	return b.cb.Name()
}

func (b *Breaker) Failures() int {
	return int(b.cb.Counts().ConsecutiveFailures)
}

func (b *Breaker) Successes() int {
	return int(b.cb.Counts().ConsecutiveSuccesses)
}

func (b *Breaker) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:    b.metrics.totalRequests.Load(),
		SuccessRequests:  b.metrics.successRequests.Load(),
		FailedRequests:   b.metrics.failedRequests.Load(),
		RejectedRequests: b.metrics.rejectedRequests.Load(),
		StateChanges:     b.metrics.stateChanges.Load(),
		CurrentState:     b.State().String(),
	}
}

type MetricsSnapshot struct {
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	RejectedRequests int64
	StateChanges     int32
	CurrentState     string
}
