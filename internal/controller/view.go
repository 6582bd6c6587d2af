package controller

import (
	"github.com/woozymasta/sftrees/internal/filter"
	"github.com/woozymasta/sftrees/internal/geo"
)

// View is the declarative state handed to the renderer.
type View struct {
	Selection filter.Selection `json:"selection"`
	Regions   []RegionView     `json:"regions"`
	Visible   int              `json:"visible"`
	Total     int              `json:"total"`
}

// RegionView describes how to draw a placed region.
type RegionView struct {
	Key         filter.RegionKey `json:"key"`
	Color       string           `json:"color"`
	Center      geo.Pixel        `json:"center"`
	CenterGeo   geo.LonLat       `json:"center_geo"`
	RadiusMiles float64          `json:"radius_miles"`
	PixelRadius float64          `json:"pixel_radius"`
	Active      bool             `json:"active"`
}

// Choices lists dropdown values and canvas settings for the UI.
type Choices struct {
	Species   []string   `json:"species"`
	PlotSizes []string   `json:"plot_sizes"`
	Center    geo.LonLat `json:"center"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	MaxRadius float64    `json:"max_radius_miles,omitempty"`
}

func (c *Controller) view() View {
	v := View{
		Selection: c.state.Selection,
		Regions:   make([]RegionView, 0, len(c.state.Regions)),
		Visible:   len(c.visible),
		Total:     len(c.records),
	}

	for _, reg := range c.state.Regions {
		if !reg.HasCenter {
			continue
		}

		miles := c.outline
		if reg.HasRadius {
			miles = reg.RadiusMiles
		}

		v.Regions = append(v.Regions, RegionView{
			Key:         reg.Key,
			Color:       regionColors[reg.Key],
			Center:      reg.Center,
			CenterGeo:   reg.CenterGeo(c.filter.Projection),
			RadiusMiles: reg.RadiusMiles,
			PixelRadius: miles * c.ratio,
			Active:      reg.Active(),
		})
	}

	return v
}
