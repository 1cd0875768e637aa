package dashboard

import (
	"fmt"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/model"
)

// ActiveChannel returns the channel that drives plotting and risk scoring.
func (c *Core) ActiveChannel() model.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// SetActiveChannel selects ch and clears the risk assessment, even when ch is
// already active.
func (c *Core) SetActiveChannel(ch model.Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: unknown channel %d", common.ErrValidation, int(ch))
	}
	c.switchChannel(func(model.Channel) model.Channel { return ch })
	return nil
}

// ToggleChannel switches to the other channel and returns it.
func (c *Core) ToggleChannel() model.Channel {
	return c.switchChannel(model.Channel.Toggle)
}

func (c *Core) switchChannel(next func(model.Channel) model.Channel) model.Channel {
	c.mu.Lock()
	previous := c.channel
	c.channel = next(previous)
	c.store.ClearRisk()
	current := c.channel
	c.mu.Unlock()

	c.logger.Debug("Active channel set", "from", previous.String(), "to", current.String())
	return current
}
