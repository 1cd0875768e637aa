package dashboard

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/ecgdash/internal/model"
)

// StaleRiskPolicy decides what happens to a risk result that arrives after the
// channel or the signal bundle it was computed from has changed.
type StaleRiskPolicy int

// Stale risk policies.
const (
	// StaleRiskApply stores the late result, tagged with the channel it was requested for.
	StaleRiskApply StaleRiskPolicy = iota
	// StaleRiskDiscard drops the late result and returns ComputeRisk to Idle.
	StaleRiskDiscard
)

// ParseStaleRiskPolicy converts "apply" or "discard" to a policy.
func ParseStaleRiskPolicy(s string) (StaleRiskPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "apply", "":
		return StaleRiskApply, nil
	case "discard":
		return StaleRiskDiscard, nil
	default:
		return StaleRiskApply, fmt.Errorf("unknown stale risk policy %q (want apply or discard)", s)
	}
}

func (p StaleRiskPolicy) String() string {
	if p == StaleRiskDiscard {
		return "discard"
	}
	return "apply"
}

// Core is the single owned state object of the dashboard. All transitions go
// through its methods; it is safe for concurrent use.
type Core struct {
	backend      Backend
	store        *Store
	logger       *slog.Logger
	now          func() time.Time
	errorMessage string
	observers    []Observer
	inflight     sync.WaitGroup
	level        float64
	levelSeq     uint64
	mu           sync.Mutex
	channel      model.Channel
	staleRisk    StaleRiskPolicy
}

// Option configures a Core.
type Option func(*Core)

// WithStaleRiskPolicy sets how late risk results are handled.
func WithStaleRiskPolicy(p StaleRiskPolicy) Option {
	return func(c *Core) { c.staleRisk = p }
}

// WithObserver adds an observer of remote calls.
func WithObserver(o Observer) Option {
	return func(c *Core) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Core) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithChannel sets the initial active channel.
func WithChannel(ch model.Channel) Option {
	return func(c *Core) {
		if ch.Valid() {
			c.channel = ch
		}
	}
}

// WithLevel sets the initial abnormality level. Values outside [0,1] are ignored.
func WithLevel(level float64) Option {
	return func(c *Core) {
		if validLevel(level) {
			c.level = level
		}
	}
}

// WithClock overrides the time source used for event timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(c *Core) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Core talking to backend.
func New(backend Backend, opts ...Option) *Core {
	c := &Core{
		backend: backend,
		store:   NewStore(),
		logger:  slog.Default(),
		now:     time.Now,
		channel: model.ChannelNormal,
		level:   model.DefaultAbnormalityLevel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ErrorMessage returns the message in the user-facing error slot.
func (c *Core) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// DismissError clears the user-facing error slot.
func (c *Core) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = ""
}

// State returns the current state of an operation kind.
func (c *Core) State(kind model.OperationKind) model.OperationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.State(kind)
}

// Wait blocks until every streamed level update started by StreamLevel has
// finished.
func (c *Core) Wait() {
	c.inflight.Wait()
}

// setError replaces the error slot. Callers hold c.mu.
func (c *Core) setError(message string) {
	c.errorMessage = message
}

func (c *Core) notifyDispatched(operation string) {
	for _, o := range c.observers {
		o.OperationDispatched(operation)
	}
}

func (c *Core) notifyCompleted(ev Event) {
	for _, o := range c.observers {
		o.OperationCompleted(ev)
	}
}

func (c *Core) notifyRejected(operation string, err error) {
	for _, o := range c.observers {
		o.OperationRejected(operation, err)
	}
}
