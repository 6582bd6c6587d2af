// Package trees loads street tree records and exposes their display data.
package trees

import (
	"sort"

	"github.com/woozymasta/sftrees/internal/geo"
)

// Record is a single geocoded tree. Records are never modified after parsing.
type Record struct {
	ID       int64      `json:"id"`
	Species  string     `json:"species"`
	Address  string     `json:"address"`
	PlotSize string     `json:"plot_size"` // lower-cased
	SiteInfo string     `json:"site_info"`
	DBH      float64    `json:"dbh"` // diameter at breast height, inches
	Position geo.LonLat `json:"position"`
}

// Species returns the distinct species of records in ascending order.
func Species(records []Record) []string {
	return unique(records, func(r Record) string { return r.Species })
}

// PlotSizes returns the distinct plot size categories in ascending order.
func PlotSizes(records []Record) []string {
	return unique(records, func(r Record) string { return r.PlotSize })
}

func unique(records []Record, key func(Record) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)

	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	sort.Strings(out)
	return out
}

// ToGeoJSON renders records as point features. Each feature carries the
// display fields and its projected canvas position.
func ToGeoJSON(records []Record, proj *geo.Projection) geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection(len(records))

	for _, r := range records {
		props := map[string]any{
			"id":        r.ID,
			"species":   r.Species,
			"address":   r.Address,
			"plot_size": r.PlotSize,
			"site_info": r.SiteInfo,
			"dbh":       r.DBH,
		}
		if proj != nil {
			px := proj.Project(r.Position)
			props["x"] = px.X
			props["y"] = px.Y
		}

		fc.Features = append(fc.Features, geo.NewPointFeature(r.Position, props))
	}

	return fc
}
