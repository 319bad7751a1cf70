package geospatial

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/impact-cli/internal/catalog"
)

// Layer names served by the data endpoints.
const (
	LayerSchools       = "schools"
	LayerZoning        = "zoning"
	LayerStations      = "marta-stations"
	LayerIntersections = "intersections"
)

// ErrUnknownLayer is returned for a layer name that is not served.
var ErrUnknownLayer = eris.New("geospatial: unknown layer")

// LayerNames lists the catalog layers in display order.
func LayerNames() []string {
	return []string{LayerSchools, LayerZoning, LayerStations, LayerIntersections}
}

// Layer builds the named catalog layer.
func Layer(cat *catalog.Catalog, name string) (*geojson.FeatureCollection, error) {
	switch name {
	case LayerSchools:
		return SchoolsLayer(cat), nil
	case LayerZoning:
		return ZoningLayer(cat), nil
	case LayerStations:
		return StationsLayer(cat), nil
	case LayerIntersections:
		return IntersectionsLayer(cat), nil
	default:
		return nil, eris.Wrapf(ErrUnknownLayer, "%q", name)
	}
}

// LayerCount returns the feature count of a layer without building it.
func LayerCount(cat *catalog.Catalog, name string) int {
	switch name {
	case LayerSchools:
		return len(cat.Schools)
	case LayerZoning:
		return len(cat.Zones)
	case LayerStations:
		return len(cat.Stations)
	case LayerIntersections:
		return len(cat.Intersections)
	default:
		return 0
	}
}

func point(lng, lat float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lng, lat})
}

// SchoolsLayer returns one point per school.
func SchoolsLayer(cat *catalog.Catalog) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(cat.Schools))}
	for _, s := range cat.Schools {
		var pct float64
		if s.Capacity > 0 {
			pct = float64(s.Enrollment) / float64(s.Capacity) * 100
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point(s.Lng, s.Lat),
			Properties: map[string]any{
				"name":         s.Name,
				"grade_level":  s.GradeLevel,
				"enrollment":   s.Enrollment,
				"capacity":     s.Capacity,
				"capacity_pct": pct,
			},
		})
	}
	return fc
}

// StationsLayer returns one point per transit station.
func StationsLayer(cat *catalog.Catalog) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(cat.Stations))}
	for _, s := range cat.Stations {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point(s.Lng, s.Lat),
			Properties: map[string]any{
				"name": s.Name,
				"line": s.Line,
			},
		})
	}
	return fc
}

// IntersectionsLayer returns one point per monitored intersection.
func IntersectionsLayer(cat *catalog.Catalog) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(cat.Intersections))}
	for _, in := range cat.Intersections {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point(in.Lng, in.Lat),
			Properties: map[string]any{
				"name":           in.Name,
				"current_volume": in.CurrentVolume,
				"current_los":    in.CurrentLOS,
			},
		})
	}
	return fc
}

// ZoningLayer returns the zone boundaries with the limits of their rule.
// Zoning rules without a boundary are not drawn.
func ZoningLayer(cat *catalog.Catalog) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(cat.Zones))}
	for _, z := range cat.Zones {
		props := map[string]any{"zone_code": z.ZoneCode}
		if z.Name != "" {
			props["name"] = z.Name
		}
		if rule, ok := cat.Rule(z.ZoneCode); ok {
			props["max_height_ft"] = rule.MaxHeightFt
			if rule.MaxFAR != nil {
				props["max_far"] = *rule.MaxFAR
			}
			if rule.MaxUnitsPerAcre != nil {
				props["max_units_per_acre"] = *rule.MaxUnitsPerAcre
			}
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         z.ZoneCode,
			Geometry:   z.Polygon,
			Properties: props,
		})
	}
	return fc
}
