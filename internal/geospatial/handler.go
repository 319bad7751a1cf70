package geospatial

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/catalog"
)

const (
	contentTypeGeoJSON = "application/geo+json"
	heatmapKey         = "heatmap"
	layerKeyPrefix     = "layer:"
)

// LayerSummary is the per-layer entry of the data summary.
type LayerSummary struct {
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"last_updated"`
}

// LayerHandler serves the heatmap and catalog layers as GeoJSON.
type LayerHandler struct {
	catalog *catalog.Catalog
	cache   *LayerCache
}

// NewLayerHandler creates a handler over cat. A nil cache disables caching.
func NewLayerHandler(cat *catalog.Catalog, cache *LayerCache) *LayerHandler {
	return &LayerHandler{catalog: cat, cache: cache}
}

// Heatmap returns the encoded heatmap, from cache when possible. The second
// return value reports a cache hit.
func (h *LayerHandler) Heatmap() ([]byte, bool, error) {
	return h.encoded(heatmapKey, func() (any, error) { return Heatmap(), nil })
}

// Layer returns the encoded catalog layer, from cache when possible.
func (h *LayerHandler) Layer(name string) ([]byte, bool, error) {
	return h.encoded(layerKeyPrefix+name, func() (any, error) { return Layer(h.catalog, name) })
}

func (h *LayerHandler) encoded(key string, build func() (any, error)) ([]byte, bool, error) {
	if h.cache != nil {
		if data := h.cache.Get(key); data != nil {
			return data, true, nil
		}
	}

	v, err := build()
	if err != nil {
		return nil, false, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false, eris.Wrapf(err, "geospatial: encode %s", key)
	}

	if h.cache != nil {
		h.cache.Put(key, data)
	}
	return data, false, nil
}

// Summary returns the feature count and load time of every catalog layer.
func (h *LayerHandler) Summary() map[string]LayerSummary {
	out := make(map[string]LayerSummary, len(LayerNames()))
	for _, name := range LayerNames() {
		out[name] = LayerSummary{
			Count:       LayerCount(h.catalog, name),
			LastUpdated: h.catalog.LoadedAt,
		}
	}
	return out
}

// ServeHeatmap writes the impact heatmap.
func (h *LayerHandler) ServeHeatmap(w http.ResponseWriter, _ *http.Request) {
	data, hit, err := h.Heatmap()
	h.write(w, heatmapKey, data, hit, err)
}

// ServeLayer writes the named catalog layer. Unknown layers are 404.
func (h *LayerHandler) ServeLayer(w http.ResponseWriter, _ *http.Request, name string) {
	data, hit, err := h.Layer(name)
	h.write(w, name, data, hit, err)
}

// StatsHandler returns cache statistics as JSON.
func (h *LayerHandler) StatsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.cache == nil {
		_, _ = w.Write([]byte(`{"enabled":false}`))
		return
	}
	_ = json.NewEncoder(w).Encode(h.cache.Stats())
}

func (h *LayerHandler) write(w http.ResponseWriter, key string, data []byte, hit bool, err error) {
	if err != nil {
		if eris.Is(err, ErrUnknownLayer) {
			http.Error(w, "unknown layer", http.StatusNotFound)
			return
		}
		zap.L().Error("geospatial: layer generation failed", zap.String("layer", key), zap.Error(err))
		http.Error(w, "layer generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeGeoJSON)
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}
