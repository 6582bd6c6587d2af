package trees

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/sftrees/internal/geo"

	"github.com/rs/zerolog/log"
)

// Column names of the street tree dataset.
const (
	ColumnID        = "TreeID"
	ColumnSpecies   = "qSpecies"
	ColumnAddress   = "qAddress"
	ColumnPlotSize  = "PlotSize"
	ColumnSiteInfo  = "qSiteInfo"
	ColumnDBH       = "DBH"
	ColumnLongitude = "Longitude"
	ColumnLatitude  = "Latitude"
)

var requiredColumns = []string{
	ColumnID, ColumnSpecies, ColumnAddress, ColumnPlotSize,
	ColumnSiteInfo, ColumnDBH, ColumnLongitude, ColumnLatitude,
}

// ErrMissingColumn is returned when the header lacks a dataset column.
var ErrMissingColumn = errors.New("missing column")

// Parser converts dataset rows into records.
type Parser struct {
	// UnknownSpecies are species values that mark a row as not well-formed.
	UnknownSpecies []string
}

// Load opens the CSV file at path and parses it.
func (p Parser) Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	records, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return records, nil
}

// Parse reads CSV rows with a header line. Rows with an unknown species or an
// empty plot size are dropped, as are rows whose coordinates are not numbers.
func (p Parser) Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	unknown := make(map[string]struct{}, len(p.UnknownSpecies))
	for _, s := range p.UnknownSpecies {
		unknown[s] = struct{}{}
	}

	var (
		records []Record
		dropped int
		line    int
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		species := field(ColumnSpecies)
		plot := field(ColumnPlotSize)
		if _, bad := unknown[species]; bad || plot == "" {
			dropped++
			continue
		}

		lon, errLon := parseNumber(field(ColumnLongitude))
		lat, errLat := parseNumber(field(ColumnLatitude))
		if errLon != nil || errLat != nil {
			log.Debug().
				Int("row", line).
				Str("longitude", field(ColumnLongitude)).
				Str("latitude", field(ColumnLatitude)).
				Msg("Skipping row with invalid coordinates")
			dropped++
			continue
		}

		id, _ := parseNumber(field(ColumnID))
		dbh, _ := parseNumber(field(ColumnDBH))

		records = append(records, Record{
			ID:       int64(id),
			Species:  species,
			Address:  field(ColumnAddress),
			PlotSize: strings.ToLower(plot),
			SiteInfo: field(ColumnSiteInfo),
			DBH:      dbh,
			Position: geo.LonLat{Lon: lon, Lat: lat},
		})
	}

	log.Debug().
		Int("rows", line).
		Int("records", len(records)).
		Int("dropped", dropped).
		Msg("Tree dataset parsed")

	return records, nil
}

// parseNumber coerces a field to a number; blank fields are zero.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}
