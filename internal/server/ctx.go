package server

import (
	"net/http"

	"github.com/woozymasta/sftrees/assets"
	"github.com/woozymasta/sftrees/internal/config"
	"github.com/woozymasta/sftrees/internal/controller"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config     *config.Config
	Controller *controller.Controller
	Gatherer   prometheus.Gatherer
	IndexHTML  []byte
	Favicon    []byte

	validate *validator.Validate
}

// NewServerContext wires the handlers to a controller. A nil gatherer
// serves the default Prometheus registry.
func NewServerContext(cfg *config.Config, ctrl *controller.Controller, gatherer prometheus.Gatherer) *ServerContext {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	view := ctrl.View()
	log.Info().
		Int("records", view.Total).
		Str("map_image", cfg.MapImage).
		Float64("pixels_per_mile", ctrl.PixelsPerMile()).
		Msg("Server context initialized")

	return &ServerContext{
		Config:     cfg,
		Controller: ctrl,
		Gatherer:   gatherer,
		IndexHTML:  assets.Index,
		Favicon:    assets.Favicon,
		validate:   validator.New(),
	}
}

// Routes returns the request multiplexer wrapped in the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/options", s.HandleOptions)
	mux.HandleFunc("GET /api/state", s.HandleState)
	mux.HandleFunc("POST /api/events", s.HandleEvent)
	mux.HandleFunc("GET /api/trees", s.HandleTrees)
	mux.HandleFunc("GET /map", s.HandleMapImage)
	mux.HandleFunc("GET /favicon.svg", s.HandleFavicon)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /", s.HandleIndex)

	return RequestLogger(mux)
}
