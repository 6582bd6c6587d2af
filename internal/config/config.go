// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/woozymasta/sftrees/internal/geo"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults match the San Francisco street tree map.
const (
	DefaultDataFile     = "data/trees.csv"
	DefaultMapImage     = "data/sf-map.svg"
	DefaultScale        = 225000
	DefaultCanvasSize   = 750
	DefaultOutlineMiles = 1.0
	DefaultCenterLon    = -122.433701
	DefaultCenterLat    = 37.767683
)

// DefaultUnknownSpecies lists species values that mark a row as not well-formed.
var DefaultUnknownSpecies = []string{"::", "Tree(s) ::"}

// Config represents the root configuration file structure.
type Config struct {
	Title      string     `yaml:"title,omitempty" json:"title,omitempty"`
	DataFile   string     `yaml:"data" json:"-" validate:"required"`
	DataURL    string     `yaml:"data_url,omitempty" json:"-" validate:"omitempty,url"`
	MapImage   string     `yaml:"map_image" json:"-" validate:"required"`
	MapSource  string     `yaml:"map_source,omitempty" json:"-"`
	Projection Projection `yaml:"projection" json:"projection"`
	Filter     Filter     `yaml:"filter" json:"filter"`
}

// Projection describes the fixed Mercator projection of the map image.
type Projection struct {
	Center           geo.LonLat `yaml:"center" json:"center"`
	Scale            float64    `yaml:"scale" json:"scale" validate:"gt=0"`
	Width            int        `yaml:"width" json:"width" validate:"gt=0"`
	Height           int        `yaml:"height" json:"height" validate:"gt=0"`
	EarthRadiusMiles float64    `yaml:"earth_radius_miles,omitempty" json:"earth_radius_miles" validate:"gt=0"`
}

// Filter holds load-time and interaction defaults for filtering.
type Filter struct {
	UnknownSpecies []string `yaml:"unknown_species,omitempty" json:"-"`
	// radius of a region outline before its slider has been touched
	OutlineMiles float64 `yaml:"outline_miles,omitempty" json:"outline_miles" validate:"gte=0"`
	MaxRadius    float64 `yaml:"max_radius_miles,omitempty" json:"max_radius_miles" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Sphere returns the sphere used for distance calculations.
func (c *Config) Sphere() geo.Sphere {
	return geo.Sphere{RadiusMiles: c.Projection.EarthRadiusMiles}
}

// NewProjection builds the configured map projection.
func (c *Config) NewProjection() *geo.Projection {
	p := c.Projection
	return geo.NewMercator(p.Center, p.Scale, p.Width, p.Height)
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = "San Francisco Street Trees"
	}
	if c.DataFile == "" {
		c.DataFile = DefaultDataFile
	}
	if c.MapImage == "" {
		c.MapImage = DefaultMapImage
	}

	p := &c.Projection
	if p.Center == (geo.LonLat{}) {
		p.Center = geo.LonLat{Lon: DefaultCenterLon, Lat: DefaultCenterLat}
	}
	if p.Scale == 0 {
		p.Scale = DefaultScale
	}
	if p.Width == 0 {
		p.Width = DefaultCanvasSize
	}
	if p.Height == 0 {
		p.Height = DefaultCanvasSize
	}
	if p.EarthRadiusMiles == 0 {
		p.EarthRadiusMiles = geo.EarthRadiusMiles
	}

	if c.Filter.UnknownSpecies == nil {
		c.Filter.UnknownSpecies = DefaultUnknownSpecies
	}
	if c.Filter.OutlineMiles == 0 {
		c.Filter.OutlineMiles = DefaultOutlineMiles
	}
}
