// Package api exposes the impact pipeline, the analysis history and the
// GeoJSON layers over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/geospatial"
	"github.com/sells-group/impact-cli/internal/pipeline"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Deps are the collaborators the router serves.
type Deps struct {
	Pipeline    *pipeline.Pipeline
	Layers      *geospatial.LayerHandler
	CORSOrigins []string
}

// NewRouter builds the HTTP handler.
func NewRouter(deps Deps) http.Handler {
	h := &Handlers{pipeline: deps.Pipeline, layers: deps.Layers}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze-building", h.AnalyzeBuilding)

		r.Route("/analyses", func(r chi.Router) {
			r.Get("/", h.ListAnalyses)
			r.Get("/{id}", h.GetAnalysis)
		})

		r.Get("/impact-heatmap", h.layers.ServeHeatmap)
		r.Get("/data/summary", h.DataSummary)
		r.Get("/data/cache", h.layers.StatsHandler)
		r.Get("/data/{layer}", func(w http.ResponseWriter, r *http.Request) {
			h.layers.ServeLayer(w, r, chi.URLParam(r, "layer"))
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zap.L().Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
