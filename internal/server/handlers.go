// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/sftrees/internal/controller"
	"github.com/woozymasta/sftrees/internal/filter"
	"github.com/woozymasta/sftrees/internal/geo"
	"github.com/woozymasta/sftrees/internal/trees"

	"github.com/rs/zerolog/log"
)

const (
	etagCap      = 64
	maxEventBody = 4 << 10
)

// eventRequest is the JSON envelope of a UI event.
type eventRequest struct {
	X           *float64 `json:"x"`
	Y           *float64 `json:"y"`
	RadiusMiles *float64 `json:"radius_miles"`
	Type        string   `json:"type" validate:"required,oneof=select_species select_plot_size place_region move_region set_radius"`
	Key         string   `json:"key" validate:"omitempty,oneof=A B"`
	Value       string   `json:"value" validate:"max=256"`
}

var errBadEvent = errors.New("bad event")

func (r eventRequest) event() (controller.Event, error) {
	key := filter.RegionKey(r.Key)

	point := func() (geo.Pixel, error) {
		if r.X == nil || r.Y == nil {
			return geo.Pixel{}, fmt.Errorf("%w: %s requires x and y", errBadEvent, r.Type)
		}
		return geo.Pixel{X: *r.X, Y: *r.Y}, nil
	}

	switch r.Type {
	case "select_species":
		return controller.SelectSpecies{Value: r.Value}, nil

	case "select_plot_size":
		return controller.SelectPlotSize{Value: r.Value}, nil

	case "place_region":
		at, err := point()
		if err != nil {
			return nil, err
		}
		return controller.PlaceRegion{At: at}, nil

	case "move_region":
		if r.Key == "" {
			return nil, fmt.Errorf("%w: move_region requires key", errBadEvent)
		}
		to, err := point()
		if err != nil {
			return nil, err
		}
		return controller.MoveRegion{Key: key, To: to}, nil

	case "set_radius":
		if r.Key == "" || r.RadiusMiles == nil {
			return nil, fmt.Errorf("%w: set_radius requires key and radius_miles", errBadEvent)
		}
		return controller.SetRadius{Key: key, Miles: *r.RadiusMiles}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", errBadEvent, r.Type)
}

// HandleEvent applies a UI event and responds with the resulting view.
func (s *ServerContext) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ev, err := req.event()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := s.Controller.Dispatch(ev)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandleState serves the current view.
func (s *ServerContext) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Controller.View())
}

// HandleOptions serves dropdown values and canvas settings.
func (s *ServerContext) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Controller.Choices())
}

// HandleTrees serves the visible records as GeoJSON.
func (s *ServerContext) HandleTrees(w http.ResponseWriter, r *http.Request) {
	fc := trees.ToGeoJSON(s.Controller.Visible(), s.Controller.Projection())

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		log.Debug().Err(err).Msg("Failed to write trees response")
	}
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleMapImage serves the static background image of the map.
func (s *ServerContext) HandleMapImage(w http.ResponseWriter, r *http.Request) {
	contentType := ""
	if strings.HasSuffix(s.Config.MapImage, ".webp") {
		contentType = "image/webp"
	}

	if !s.serveFile(w, r, s.Config.MapImage, contentType) {
		http.NotFound(w, r)
	}
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
