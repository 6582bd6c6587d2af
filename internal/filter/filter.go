// Package filter decides which tree records are visible for a filter state.
package filter

import (
	"github.com/woozymasta/sftrees/internal/geo"
	"github.com/woozymasta/sftrees/internal/trees"
)

// All selects every value of a criterion.
const All = "all"

// ToleranceMiles absorbs projection round-trip error in region membership,
// so a zero radius still admits a point placed exactly at the center.
const ToleranceMiles = 1e-6

// Selection is the current dropdown choice. Empty fields select everything.
type Selection struct {
	Species  string `json:"species"`
	PlotSize string `json:"plot_size"`
}

// Matches reports whether r satisfies both criteria.
func (s Selection) Matches(r trees.Record) bool {
	if !unset(s.Species) && r.Species != s.Species {
		return false
	}
	if !unset(s.PlotSize) && r.PlotSize != s.PlotSize {
		return false
	}
	return true
}

func unset(v string) bool {
	return v == "" || v == All
}

// State is the complete input of the pipeline.
type State struct {
	Selection Selection
	Regions   []Region
}

// Filter evaluates region membership on a projected map.
type Filter struct {
	Projection *geo.Projection
	Sphere     geo.Sphere
}

// IsWithinRegions reports whether pos lies inside every active region.
// With no active region every position passes.
func (f Filter) IsWithinRegions(pos geo.LonLat, regions []Region) bool {
	return f.within(pos, f.circles(regions))
}

// Visible returns the records matching the selection and all active regions,
// in input order.
func (f Filter) Visible(records []trees.Record, state State) []trees.Record {
	circles := f.circles(state.Regions)

	out := make([]trees.Record, 0, len(records))
	for _, r := range records {
		if state.Selection.Matches(r) && f.within(r.Position, circles) {
			out = append(out, r)
		}
	}
	return out
}

type circle struct {
	center geo.LonLat
	radius float64
}

func (f Filter) circles(regions []Region) []circle {
	out := make([]circle, 0, len(regions))
	for _, reg := range regions {
		if !reg.Active() {
			continue
		}
		out = append(out, circle{center: reg.CenterGeo(f.Projection), radius: reg.RadiusMiles})
	}
	return out
}

func (f Filter) within(pos geo.LonLat, circles []circle) bool {
	for _, c := range circles {
		// NaN distances never pass
		if !(f.Sphere.Distance(c.center, pos) <= c.radius+ToleranceMiles) {
			return false
		}
	}
	return true
}
