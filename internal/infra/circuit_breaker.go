package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CBState is where the receipt relay breaker stands. While it is open every
// receipt mail is refused up front and the job lands in the dead-letter
// queue; the replay worker holds off until the breaker lets a send through.
type CBState int

const (
	CBClosed   CBState = iota // relay healthy, receipts go out
	CBOpen                    // relay failing, receipts refused
	CBHalfOpen                // cool-down over, one trial receipt allowed
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen means the relay was not contacted at all.
var ErrCircuitOpen = errors.New("receipt relay unavailable: circuit open")

type CircuitBreakerConfig struct {
	// Name tags transition log lines, e.g. "smtp".
	Name string
	// FailureThreshold is the run of failed sends that trips the breaker.
	FailureThreshold int
	// SuccessThreshold is the run of trial sends needed to close it again.
	SuccessThreshold int
	// OpenTimeout is the cool-down before a trial send is allowed.
	OpenTimeout time.Duration
}

// DefaultCBConfig is tuned for a shop relay: three bounced receipts in a row
// pause mailing for half a minute.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      30 * time.Second,
	}
}

// CircuitBreaker counts consecutive relay failures. In half-open only one
// trial send is in flight at a time; concurrent senders get ErrCircuitOpen.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    CBState
	failures int
	trials   int
	openedAt time.Time
	trialOut bool
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now, state: CBClosed}
}

// State reports the current state, moving open to half-open once the
// cool-down has passed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.cooldownLocked()
	return cb.state
}

// RetryAt is when an open breaker will allow its trial send. Zero unless open.
func (cb *CircuitBreaker) RetryAt() time.Time {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.cooldownLocked()
	if cb.state != CBOpen {
		return time.Time{}
	}
	return cb.openedAt.Add(cb.cfg.OpenTimeout)
}

// Execute runs send unless the breaker refuses it, then books the outcome.
func (cb *CircuitBreaker) Execute(send func() error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := send()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.cooldownLocked()
	switch cb.state {
	case CBOpen:
		return ErrCircuitOpen
	case CBHalfOpen:
		if cb.trialOut {
			return ErrCircuitOpen
		}
		cb.trialOut = true
	}
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	wasTrial := cb.state == CBHalfOpen
	cb.trialOut = false

	if err != nil {
		cb.failures++
		if wasTrial || cb.failures >= cb.cfg.FailureThreshold {
			cb.openedAt = cb.now()
			cb.moveLocked(CBOpen, err)
		}
		return
	}

	cb.failures = 0
	if wasTrial {
		cb.trials++
		if cb.trials >= cb.cfg.SuccessThreshold {
			cb.moveLocked(CBClosed, nil)
		}
	}
}

func (cb *CircuitBreaker) cooldownLocked() {
	if cb.state == CBOpen && !cb.now().Before(cb.openedAt.Add(cb.cfg.OpenTimeout)) {
		cb.moveLocked(CBHalfOpen, nil)
	}
}

// moveLocked switches state and resets the counters the new state starts from.
func (cb *CircuitBreaker) moveLocked(to CBState, cause error) {
	from := cb.state
	cb.state = to
	cb.trials = 0
	if to != CBClosed {
		cb.failures = 0
	}

	switch to {
	case CBOpen:
		log.Warn().Err(cause).
			Str("breaker", cb.cfg.Name).
			Str("from", from.String()).
			Time("retry_at", cb.openedAt.Add(cb.cfg.OpenTimeout)).
			Msg("circuit_breaker: opened, receipt mail paused")
	case CBHalfOpen:
		log.Info().Str("breaker", cb.cfg.Name).Msg("circuit_breaker: half-open, allowing trial receipt")
	case CBClosed:
		log.Info().Str("breaker", cb.cfg.Name).Str("from", from.String()).Msg("circuit_breaker: closed, receipt mail resumed")
	}
}
