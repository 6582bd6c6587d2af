package controller

import (
	"errors"
	"fmt"

	"github.com/woozymasta/sftrees/internal/filter"
	"github.com/woozymasta/sftrees/internal/geo"
)

// Errors returned for events that cannot be applied.
var (
	ErrUnknownRegion   = errors.New("unknown region")
	ErrRegionNotPlaced = errors.New("region not placed")
	ErrNegativeRadius  = errors.New("radius must not be negative")
	ErrRadiusTooLarge  = errors.New("radius exceeds limit")
)

// Event is a UI interaction that updates the filter state.
type Event interface {
	// Name identifies the event type in logs and metrics.
	Name() string
	apply(c *Controller) error
}

// SelectSpecies changes the species dropdown. Empty or "all" clears it.
type SelectSpecies struct {
	Value string
}

// SelectPlotSize changes the plot size dropdown. Empty or "all" clears it.
type SelectPlotSize struct {
	Value string
}

// PlaceRegion is a click on the map. It places the next unplaced region;
// once every region is placed further clicks are ignored.
type PlaceRegion struct {
	At geo.Pixel
}

// MoveRegion drags a placed region to a new center.
type MoveRegion struct {
	Key filter.RegionKey
	To  geo.Pixel
}

// SetRadius changes the radius slider of a region.
type SetRadius struct {
	Key   filter.RegionKey
	Miles float64
}

func (SelectSpecies) Name() string  { return "select_species" }
func (SelectPlotSize) Name() string { return "select_plot_size" }
func (PlaceRegion) Name() string    { return "place_region" }
func (MoveRegion) Name() string     { return "move_region" }
func (SetRadius) Name() string      { return "set_radius" }

func (e SelectSpecies) apply(c *Controller) error {
	c.state.Selection.Species = e.Value
	return nil
}

func (e SelectPlotSize) apply(c *Controller) error {
	c.state.Selection.PlotSize = e.Value
	return nil
}

func (e PlaceRegion) apply(c *Controller) error {
	for i := range c.state.Regions {
		reg := &c.state.Regions[i]
		if reg.HasCenter {
			continue
		}
		reg.Center = e.At
		reg.HasCenter = true
		return nil
	}
	return errAllPlaced
}

func (e MoveRegion) apply(c *Controller) error {
	reg, err := c.region(e.Key)
	if err != nil {
		return err
	}
	if !reg.HasCenter {
		return fmt.Errorf("%w: %s", ErrRegionNotPlaced, e.Key)
	}
	reg.Center = e.To
	return nil
}

func (e SetRadius) apply(c *Controller) error {
	if e.Miles < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeRadius, e.Miles)
	}
	if c.maxRadius > 0 && e.Miles > c.maxRadius {
		return fmt.Errorf("%w: %g > %g", ErrRadiusTooLarge, e.Miles, c.maxRadius)
	}

	reg, err := c.region(e.Key)
	if err != nil {
		return err
	}
	reg.RadiusMiles = e.Miles
	reg.HasRadius = true
	return nil
}

// errAllPlaced marks a click with no free region slot; it is not reported.
var errAllPlaced = errors.New("all regions placed")
