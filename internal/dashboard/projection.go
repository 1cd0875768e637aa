package dashboard

import "github.com/Veraticus/ecgdash/internal/model"

// Project pairs the time axis of bundle with the amplitudes of channel. A nil
// bundle yields an empty series.
func Project(bundle *model.SignalBundle, ch model.Channel) []model.Point {
	if bundle == nil {
		return []model.Point{}
	}
	amplitudes := bundle.Series(ch)
	points := make([]model.Point, len(bundle.Time))
	for i, t := range bundle.Time {
		points[i] = model.Point{Time: t, Amplitude: amplitudes[i]}
	}
	return points
}

// Projection returns the plot-ready series of the active channel.
func (c *Core) Projection() []model.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Project(c.store.Bundle(), c.channel)
}
