package trees

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/sftrees/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "TreeID,qLegalStatus,qSpecies,qAddress,SiteOrder,qSiteInfo,PlantType,qCaretaker,qCareAssistant,PlantDate,DBH,PlotSize,PermitNotes,XCoord,YCoord,Latitude,Longitude,Location\n"

const sample = header +
	`53719,Permitted Site,Quercus agrifolia :: Coast Live Oak,2963 Webster St,1,Sidewalk: Curb side : Cutout,Tree,Private,,,16,Width 4ft,,6008086,2120958,37.7977,-122.4337,"(37.7977, -122.4337)"` + "\n" +
	`30313,DPW Maintained,Tree(s) ::,501 Arkansas St,1,Sidewalk: Curb side : Cutout,Tree,DPW,,,3,Width 3ft,,,,37.76,-122.39,` + "\n" +
	`30314,DPW Maintained,::,502 Arkansas St,1,Sidewalk: Curb side : Cutout,Tree,DPW,,,3,Width 3ft,,,,37.76,-122.39,` + "\n" +
	`30315,DPW Maintained,Pinus radiata :: Monterey Pine,503 Arkansas St,2,Front Yard : Yard,Tree,DPW,,,,,,,,37.76,-122.39,` + "\n" +
	`30316,DPW Maintained,Pinus radiata :: Monterey Pine,1 Market St,1,Median : Cutout,Tree,DPW,,,24,WIDTH 3FT,,,,37.78,-122.45,` + "\n" +
	`30317,DPW Maintained,Pinus radiata :: Monterey Pine,2 Market St,1,Median : Cutout,Tree,DPW,,,24,Width 3ft,,,,north,-122.45,` + "\n"

func parser() Parser {
	return Parser{UnknownSpecies: []string{"::", "Tree(s) ::"}}
}

func TestParse(t *testing.T) {
	records, err := parser().Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, records, 2)

	oak := records[0]
	assert.Equal(t, int64(53719), oak.ID)
	assert.Equal(t, "Quercus agrifolia :: Coast Live Oak", oak.Species)
	assert.Equal(t, "2963 Webster St", oak.Address)
	assert.Equal(t, "width 4ft", oak.PlotSize)
	assert.Equal(t, "Sidewalk: Curb side : Cutout", oak.SiteInfo)
	assert.Equal(t, 16.0, oak.DBH)
	assert.Equal(t, geo.LonLat{Lon: -122.4337, Lat: 37.7977}, oak.Position)

	pine := records[1]
	assert.Equal(t, int64(30316), pine.ID)
	assert.Equal(t, "width 3ft", pine.PlotSize, "plot size is lower-cased")
}

func TestParse_WellFormedness(t *testing.T) {
	records, err := parser().Parse(strings.NewReader(sample))
	require.NoError(t, err)

	for _, r := range records {
		assert.NotEqual(t, "::", r.Species)
		assert.NotEqual(t, "Tree(s) ::", r.Species)
		assert.NotEmpty(t, r.PlotSize)
	}
}

func TestParse_BlankNumbers(t *testing.T) {
	data := "TreeID,qSpecies,qAddress,PlotSize,qSiteInfo,DBH,Longitude,Latitude\n" +
		",Oak,,small,,,-122.43,37.77\n"

	records, err := parser().Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(0), records[0].ID)
	assert.Equal(t, 0.0, records[0].DBH)
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := parser().Parse(strings.NewReader("TreeID,qSpecies\n1,Oak\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestParse_Empty(t *testing.T) {
	_, err := parser().Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	records, err := parser().Load(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = parser().Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	records := []Record{
		{Species: "Pine", PlotSize: "large"},
		{Species: "Oak", PlotSize: "small"},
		{Species: "Pine", PlotSize: "small"},
	}

	assert.Equal(t, []string{"Oak", "Pine"}, Species(records))
	assert.Equal(t, []string{"large", "small"}, PlotSizes(records))
	assert.Empty(t, Species(nil))
}

func TestToGeoJSON(t *testing.T) {
	proj := geo.NewMercator(geo.LonLat{Lon: -122.43, Lat: 37.77}, 225000, 750, 750)
	records := []Record{{ID: 7, Species: "Oak", PlotSize: "small", DBH: 3, Position: geo.LonLat{Lon: -122.43, Lat: 37.77}}}

	fc := ToGeoJSON(records, proj)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{-122.43, 37.77}, f.Geometry.Coordinates)
	assert.Equal(t, int64(7), f.Properties["id"])
	assert.Equal(t, "Oak", f.Properties["species"])
	assert.InDelta(t, 375.0, f.Properties["x"], 1e-9)
	assert.InDelta(t, 375.0, f.Properties["y"], 1e-9)
}
