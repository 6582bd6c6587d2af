package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultDataFile, cfg.DataFile)
	assert.Equal(t, DefaultMapImage, cfg.MapImage)
	assert.Equal(t, DefaultCenterLon, cfg.Projection.Center.Lon)
	assert.Equal(t, DefaultCenterLat, cfg.Projection.Center.Lat)
	assert.Equal(t, float64(DefaultScale), cfg.Projection.Scale)
	assert.Equal(t, 750, cfg.Projection.Width)
	assert.Equal(t, 750, cfg.Projection.Height)
	assert.Equal(t, 3959.0, cfg.Projection.EarthRadiusMiles)
	assert.Equal(t, []string{"::", "Tree(s) ::"}, cfg.Filter.UnknownSpecies)
	assert.Equal(t, 1.0, cfg.Filter.OutlineMiles)
}

func TestLoad_Custom(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
data: trees/custom.csv
map_image: maps/custom.webp
projection:
  center: {lon: 2.35, lat: 48.85}
  scale: 100000
  width: 1024
  height: 512
filter:
  unknown_species: ["n/a"]
  max_radius_miles: 5
`))
	require.NoError(t, err)

	assert.Equal(t, "trees/custom.csv", cfg.DataFile)
	assert.Equal(t, "maps/custom.webp", cfg.MapImage)
	assert.Equal(t, 2.35, cfg.Projection.Center.Lon)
	assert.Equal(t, 1024, cfg.Projection.Width)
	assert.Equal(t, 512, cfg.Projection.Height)
	assert.Equal(t, []string{"n/a"}, cfg.Filter.UnknownSpecies)
	assert.Equal(t, 5.0, cfg.Filter.MaxRadius)

	w, h := cfg.NewProjection().Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("negative scale", func(t *testing.T) {
		_, err := Load(writeConfig(t, "projection:\n  scale: -1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("bad data url", func(t *testing.T) {
		_, err := Load(writeConfig(t, "data_url: not a url\n"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "projection: [\n"))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3959.0, cfg.Sphere().RadiusMiles)
}
