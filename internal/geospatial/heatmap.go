// Package geospatial builds the map layers served next to the impact
// analysis: the fixed impact heatmap, one GeoJSON layer per reference
// catalog, and an LRU/TTL cache of their encoded form.
package geospatial

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/impact-cli/internal/model"
)

// ImpactZone is one square cell of the impact heatmap.
type ImpactZone struct {
	Name   string
	Center model.Location
	Radius float64 // half side length, degrees
	Score  int     // 0-100
}

// HeatmapZones are the pre-scored Atlanta neighborhoods, densest first.
var HeatmapZones = []ImpactZone{
	{Name: "Downtown", Center: model.Location{Lat: 33.7590, Lng: -84.3880}, Radius: 0.02, Score: 85},
	{Name: "Midtown", Center: model.Location{Lat: 33.7810, Lng: -84.3860}, Radius: 0.015, Score: 80},
	{Name: "Virginia Highland", Center: model.Location{Lat: 33.7650, Lng: -84.3480}, Radius: 0.012, Score: 75},
	{Name: "Buckhead", Center: model.Location{Lat: 33.8470, Lng: -84.3650}, Radius: 0.015, Score: 70},
	{Name: "East Atlanta", Center: model.Location{Lat: 33.7480, Lng: -84.3350}, Radius: 0.015, Score: 55},
	{Name: "West End", Center: model.Location{Lat: 33.7550, Lng: -84.4250}, Radius: 0.015, Score: 50},
	{Name: "Brookhaven", Center: model.Location{Lat: 33.8180, Lng: -84.3620}, Radius: 0.012, Score: 45},
	{Name: "North Buckhead", Center: model.Location{Lat: 33.8420, Lng: -84.3780}, Radius: 0.015, Score: 30},
	{Name: "Grant Park", Center: model.Location{Lat: 33.7280, Lng: -84.3680}, Radius: 0.015, Score: 25},
	{Name: "Southwest Atlanta", Center: model.Location{Lat: 33.7150, Lng: -84.4500}, Radius: 0.015, Score: 20},
}

// Heatmap returns the impact heatmap as a FeatureCollection of squares.
func Heatmap() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(HeatmapZones))}
	for _, z := range HeatmapZones {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: square(z.Center, z.Radius),
			Properties: map[string]any{
				"impact_score": z.Score,
				"zone_name":    z.Name,
			},
		})
	}
	return fc
}

// square builds the closed [lng, lat] ring of a square centered on c,
// counter-clockwise from the south-west corner.
func square(c model.Location, r float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		c.Lng - r, c.Lat - r,
		c.Lng + r, c.Lat - r,
		c.Lng + r, c.Lat + r,
		c.Lng - r, c.Lat + r,
		c.Lng - r, c.Lat - r,
	}, []int{10})
}
