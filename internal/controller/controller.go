// Package controller owns the filter state of a map session and applies UI
// events to it one at a time.
package controller

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/woozymasta/sftrees/internal/filter"
	"github.com/woozymasta/sftrees/internal/geo"
	"github.com/woozymasta/sftrees/internal/observability"
	"github.com/woozymasta/sftrees/internal/trees"

	"github.com/rs/zerolog/log"
)

var regionColors = map[filter.RegionKey]string{
	filter.RegionA: "red",
	filter.RegionB: "blue",
}

// Settings configures a controller.
type Settings struct {
	Projection *geo.Projection
	Sphere     geo.Sphere
	// OutlineMiles is the drawn radius of a region whose radius is not set yet.
	OutlineMiles float64
	// MaxRadius rejects larger radii when positive.
	MaxRadius float64
	// Metrics is optional.
	Metrics *observability.Metrics
}

// Controller holds the record set and the single filter state of a session.
type Controller struct {
	mu sync.Mutex

	filter    filter.Filter
	records   []trees.Record
	state     filter.State
	visible   []trees.Record
	ratio     float64
	outline   float64
	maxRadius float64
	metrics   *observability.Metrics
}

// New creates a controller over records. The record slice must not be
// modified afterwards.
func New(records []trees.Record, s Settings) *Controller {
	regions := make([]filter.Region, 0, len(filter.RegionKeys))
	for _, key := range filter.RegionKeys {
		regions = append(regions, filter.Region{Key: key})
	}

	c := &Controller{
		filter:    filter.Filter{Projection: s.Projection, Sphere: s.Sphere},
		records:   records,
		state:     filter.State{Regions: regions},
		ratio:     s.Projection.PixelsPerMile(s.Sphere),
		outline:   s.OutlineMiles,
		maxRadius: s.MaxRadius,
		metrics:   s.Metrics,
	}

	if c.metrics != nil {
		c.metrics.RecordsTotal.Set(float64(len(records)))
	}
	c.refresh()

	log.Debug().
		Int("records", len(records)).
		Float64("pixels_per_mile", c.ratio).
		Msg("Controller initialized")

	return c
}

// Dispatch applies ev, re-evaluates the visible records and returns the
// resulting view. A rejected event leaves the state unchanged.
func (c *Controller) Dispatch(ev Event) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.snapshot()
	err := ev.apply(c)

	switch {
	case errors.Is(err, errAllPlaced):
		log.Debug().Str("event", ev.Name()).Msg("All regions placed, click ignored")
		c.count(ev, "ignored")
		return c.view(), nil

	case err != nil:
		c.state = prev
		c.count(ev, "rejected")
		log.Debug().Err(err).Str("event", ev.Name()).Msg("Event rejected")
		return c.view(), err
	}

	c.refresh()
	c.count(ev, "applied")

	log.Trace().
		Str("event", ev.Name()).
		Int("visible", len(c.visible)).
		Msg("Event applied")

	return c.view(), nil
}

// View returns the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// Visible returns a copy of the currently visible records.
func (c *Controller) Visible() []trees.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]trees.Record, len(c.visible))
	copy(out, c.visible)
	return out
}

// Choices returns the values offered by the dropdowns.
func (c *Controller) Choices() Choices {
	w, h := c.filter.Projection.Size()
	return Choices{
		Species:   trees.Species(c.records),
		PlotSizes: trees.PlotSizes(c.records),
		Center:    c.filter.Projection.Center(),
		Width:     w,
		Height:    h,
		MaxRadius: c.maxRadius,
	}
}

// Projection returns the map projection.
func (c *Controller) Projection() *geo.Projection {
	return c.filter.Projection
}

// PixelsPerMile returns the canvas scale derived at startup.
func (c *Controller) PixelsPerMile() float64 {
	return c.ratio
}

func (c *Controller) region(key filter.RegionKey) (*filter.Region, error) {
	for i := range c.state.Regions {
		if c.state.Regions[i].Key == key {
			return &c.state.Regions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, key)
}

func (c *Controller) snapshot() filter.State {
	regions := make([]filter.Region, len(c.state.Regions))
	copy(regions, c.state.Regions)
	return filter.State{Selection: c.state.Selection, Regions: regions}
}

func (c *Controller) refresh() {
	start := time.Now()
	c.visible = c.filter.Visible(c.records, c.state)

	if c.metrics == nil {
		return
	}
	c.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	c.metrics.RecordsVisible.Set(float64(len(c.visible)))

	active := 0
	for _, reg := range c.state.Regions {
		if reg.Active() {
			active++
		}
	}
	c.metrics.ActiveRegions.Set(float64(active))
}

func (c *Controller) count(ev Event, outcome string) {
	if c.metrics != nil {
		c.metrics.Events.WithLabelValues(ev.Name(), outcome).Inc()
	}
}
