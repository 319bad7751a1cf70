package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/geospatial"
	"github.com/sells-group/impact-cli/internal/model"
	"github.com/sells-group/impact-cli/internal/pipeline"
	"github.com/sells-group/impact-cli/internal/store"
)

// maxBodyBytes bounds an analyze request body.
const maxBodyBytes = 1 << 20

// Handlers implements the JSON endpoints.
type Handlers struct {
	pipeline *pipeline.Pipeline
	layers   *geospatial.LayerHandler
}

// Root reports that the service is up.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Impact API is running",
		"version": Version,
		"status":  "healthy",
	})
}

// Health reports store reachability and catalog sizes. It always answers
// 200; a failed store ping shows up as "store":"error".
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	storeStatus := "disabled"
	if st := h.pipeline.Store(); st != nil {
		storeStatus = "ok"
		if err := st.Ping(r.Context()); err != nil {
			zap.L().Warn("api: store ping failed", zap.Error(err))
			storeStatus = "error"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"store":   storeStatus,
		"catalog": h.pipeline.Analyzer().Catalog().Counts(),
	})
}

// AnalyzeBuilding runs the full pipeline for the posted BuildingRequest.
func (h *Handlers) AnalyzeBuilding(w http.ResponseWriter, r *http.Request) {
	var req model.BuildingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, eris.Wrapf(model.ErrInvalidInput, "decode request: %v", err))
		return
	}

	resp, err := h.pipeline.Run(r.Context(), req, pipeline.RunOptions{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAnalyses returns stored analysis summaries, newest first.
func (h *Handlers) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	st := h.pipeline.Store()
	if st == nil {
		writeJSON(w, http.StatusOK, []model.AnalysisSummary{})
		return
	}

	q := r.URL.Query()
	filter := store.AnalysisFilter{Zone: q.Get("zone")}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, eris.Wrapf(model.ErrInvalidInput, "limit: %v", err))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, eris.Wrapf(model.ErrInvalidInput, "offset: %v", err))
		return
	}

	out, err := st.ListAnalyses(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAnalysis returns one stored analysis.
func (h *Handlers) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st := h.pipeline.Store()
	if st == nil {
		writeError(w, eris.Wrapf(model.ErrNotFound, "analysis %s", id))
		return
	}

	resp, err := st.GetAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DataSummary returns the count and load time of each catalog layer.
func (h *Handlers) DataSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.layers.Summary())
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, eris.Errorf("must be non-negative, got %d", n)
	}
	return n, nil
}

func statusFor(err error) int {
	switch {
	case eris.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case eris.Is(err, model.ErrUnresolvedZone):
		return http.StatusUnprocessableEntity
	case eris.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("api: request failed", zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
