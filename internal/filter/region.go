package filter

import "github.com/woozymasta/sftrees/internal/geo"

// RegionKey identifies a region independently of how it is drawn.
type RegionKey string

// Region keys in placement order.
const (
	RegionA RegionKey = "A"
	RegionB RegionKey = "B"
)

// RegionKeys lists the available region slots in placement order.
var RegionKeys = []RegionKey{RegionA, RegionB}

// Valid reports whether k names a region slot.
func (k RegionKey) Valid() bool {
	for _, key := range RegionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Region is a user-placed circle. It filters only once both its center and
// radius have been set.
type Region struct {
	Key         RegionKey `json:"key"`
	Center      geo.Pixel `json:"center"`
	RadiusMiles float64   `json:"radius_miles"`
	HasCenter   bool      `json:"has_center"`
	HasRadius   bool      `json:"has_radius"`
}

// Active reports whether the region restricts visible records.
func (r Region) Active() bool {
	return r.HasCenter && r.HasRadius
}

// CenterGeo returns the geographic position of the region center.
func (r Region) CenterGeo(p *geo.Projection) geo.LonLat {
	return p.Invert(r.Center)
}
