package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/ecgdash/internal/backend"
	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/google/uuid"
)

// Messages for abnormality level updates.
const (
	msgLevelRange     = "Abnormality level must be between 0 and 1"
	msgLevelSetFailed = "Failed to set abnormality level"
)

// LevelCall is a pending abnormality level update. Seq increases with every
// accepted update so out-of-order delivery can be traced in the logs.
type LevelCall struct {
	backend Backend
	ID      string
	Level   float64
	Seq     uint64
}

// LevelResult is the outcome of executing a LevelCall.
type LevelResult struct {
	Err      error
	Call     *LevelCall
	Duration time.Duration
}

// Level returns the locally displayed abnormality level.
func (c *Core) Level() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// SetLevel validates v, updates the local level at once and returns the
// remote update to perform. The update is not gated by any other state.
func (c *Core) SetLevel(v float64) (*LevelCall, error) {
	if !validLevel(v) {
		err := common.NewUserError(msgLevelRange,
			fmt.Errorf("%w: abnormality level %v outside [0,1]", common.ErrValidation, v))
		c.mu.Lock()
		c.setError(msgLevelRange)
		c.mu.Unlock()
		c.notifyRejected(OperationSetLevel, err)
		return nil, err
	}

	c.mu.Lock()
	c.level = v
	c.levelSeq++
	call := &LevelCall{
		ID:      uuid.NewString(),
		Level:   v,
		Seq:     c.levelSeq,
		backend: c.backend,
	}
	c.mu.Unlock()

	c.logger.Debug("Abnormality level changed", "level", v, "seq", call.Seq, "call_id", call.ID)
	c.notifyDispatched(OperationSetLevel)
	return call, nil
}

// AdjustLevel moves the level by delta, clamped to [0,1]. It returns a nil
// call when the clamped level equals the current one.
func (c *Core) AdjustLevel(delta float64) (*LevelCall, error) {
	current := c.Level()
	next := math.Round((current+delta)*1e4) / 1e4
	next = math.Max(0, math.Min(1, next))
	if next == current {
		return nil, nil
	}
	return c.SetLevel(next)
}

// Execute sends the level to the backend.
func (l *LevelCall) Execute(ctx context.Context) LevelResult {
	start := time.Now()
	err := l.backend.SetAbnormalityLevel(backend.WithRequestID(ctx, l.ID), l.Level)
	return LevelResult{Call: l, Err: err, Duration: time.Since(start)}
}

// CompleteLevel reports a failed level update in the error slot. The local
// level is never rolled back.
func (c *Core) CompleteLevel(res LevelResult) {
	call := res.Call
	ev := Event{
		ID:        call.ID,
		Operation: OperationSetLevel,
		Duration:  res.Duration,
		Outcome:   OutcomeSucceeded,
	}

	c.mu.Lock()
	ev.At = c.now()
	if res.Err != nil {
		c.setError(msgLevelSetFailed)
		ev.Outcome = OutcomeFailed
		ev.Err = res.Err
		ev.Message = msgLevelSetFailed
	}
	latest := c.levelSeq
	c.mu.Unlock()

	if res.Err != nil {
		c.logger.Error("Abnormality level update failed",
			"level", call.Level,
			"seq", call.Seq,
			"latest_seq", latest,
			"call_id", call.ID,
			"category", common.Category(res.Err),
			"error", res.Err)
	} else {
		c.logger.Debug("Abnormality level update applied",
			"level", call.Level,
			"seq", call.Seq,
			"latest_seq", latest,
			"duration", res.Duration)
	}
	c.notifyCompleted(ev)
}

// StreamLevel sets the level and sends it on its own goroutine. Use Wait to
// block until outstanding updates finish.
func (c *Core) StreamLevel(ctx context.Context, v float64) error {
	call, err := c.SetLevel(v)
	if err != nil {
		return err
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.CompleteLevel(call.Execute(ctx))
	}()
	return nil
}

func validLevel(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
