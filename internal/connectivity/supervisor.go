package connectivity

import (
	"context"
	"sync"
	"time"

	"ai-playground-be/internal/pkg/logger"
)

// Pinger is the one operation a supervised dependency must offer. The pooled
// handle itself (gorm DB, redis client) is created once at startup and never
// recreated; a ping both dials and verifies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	// MaxAttempts caps consecutive failed attempts before the supervisor
	// gives up and the process continues in degraded mode.
	MaxAttempts int
	// PingInterval is how often a connected dependency is re-checked.
	PingInterval time.Duration
	// PingTimeout bounds each individual attempt.
	PingTimeout time.Duration
	// Backoff returns the delay before the next attempt. Nil selects the
	// default tiered policy.
	Backoff func(attempt int) time.Duration
}

// DefaultBackoff grows in discrete tiers keyed to the attempt count, capped
// at ten seconds.
func DefaultBackoff(attempt int) time.Duration {
	switch {
	case attempt <= 3:
		return 2 * time.Second
	case attempt <= 6:
		return 5 * time.Second
	default:
		return 10 * time.Second
	}
}

// Supervisor owns the connect/retry lifecycle of one dependency. It is the
// single mutator of that dependency's connection state.
type Supervisor struct {
	name   string
	pinger Pinger
	log    logger.ILogger
	opts   Options

	mu       sync.Mutex
	state    State
	attempts int
	lastErr  error

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSupervisor(name string, pinger Pinger, log logger.ILogger, opts Options) *Supervisor {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 15
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 15 * time.Second
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 15 * time.Second
	}
	if opts.Backoff == nil {
		opts.Backoff = DefaultBackoff
	}
	return &Supervisor{
		name:   name,
		pinger: pinger,
		log:    log,
		opts:   opts,
		state:  StateDisconnected,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the retry loop. Call once.
func (s *Supervisor) Start() {
	go s.run()
}

// Stop shuts the supervisor down and marks the dependency disconnected.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() {
		s.setState(StateDisconnecting)
		close(s.stopCh)
	})
	<-s.doneCh
	s.setState(StateDisconnected)
}

// Snapshot returns the current state for health reporting and gating.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Name:         s.name,
		State:        s.state,
		AttemptCount: s.attempts,
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

func (s *Supervisor) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateConnected
}

func (s *Supervisor) run() {
	defer close(s.doneCh)

	for {
		if !s.connectLoop() {
			return
		}
		if !s.healthLoop() {
			return
		}
		// healthLoop observed a disconnect; fall through and reconnect.
	}
}

// connectLoop retries until connected or attempts are exhausted. Returns
// false when the supervisor should exit entirely (stopped, or terminal
// failure with no further retries).
func (s *Supervisor) connectLoop() bool {
	s.setState(StateConnecting)

	for {
		s.mu.Lock()
		s.attempts++
		attempt := s.attempts
		s.mu.Unlock()

		s.log.Info("connectivity", "attempting to connect", map[string]interface{}{
			"dependency": s.name,
			"attempt":    attempt,
			"max":        s.opts.MaxAttempts,
		})

		err := s.ping()
		if err == nil {
			s.mu.Lock()
			s.state = StateConnected
			s.attempts = 0
			s.lastErr = nil
			s.mu.Unlock()
			s.log.Info("connectivity", "connected", map[string]interface{}{
				"dependency": s.name,
			})
			return true
		}

		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()

		s.log.Warn("connectivity", "connection attempt failed", map[string]interface{}{
			"dependency": s.name,
			"attempt":    attempt,
			"error":      err.Error(),
		})

		if attempt >= s.opts.MaxAttempts {
			s.setState(StateDisconnected)
			s.log.Error("connectivity", "giving up after max attempts, continuing degraded", map[string]interface{}{
				"dependency": s.name,
				"attempts":   attempt,
			})
			return false
		}

		select {
		case <-s.stopCh:
			return false
		case <-time.After(s.opts.Backoff(attempt)):
		}
	}
}

// healthLoop watches a connected dependency. Returns true when a disconnect
// was observed and the caller should reconnect, false on shutdown.
func (s *Supervisor) healthLoop() bool {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return false
		case <-ticker.C:
			if err := s.ping(); err != nil {
				s.mu.Lock()
				s.state = StateDisconnected
				s.lastErr = err
				s.mu.Unlock()
				s.log.Warn("connectivity", "connection lost, restarting retry loop", map[string]interface{}{
					"dependency": s.name,
					"error":      err.Error(),
				})
				return true
			}
		}
	}
}

func (s *Supervisor) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.PingTimeout)
	defer cancel()
	return s.pinger.Ping(ctx)
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
