package geospatial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/impact-cli/internal/catalog"
	"github.com/sells-group/impact-cli/internal/model"
)

func TestHeatmap(t *testing.T) {
	fc := Heatmap()
	require.Len(t, fc.Features, len(HeatmapZones))

	first := fc.Features[0]
	assert.Equal(t, "Downtown", first.Properties["zone_name"])
	assert.Equal(t, 85, first.Properties["impact_score"])

	poly, ok := first.Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{
		-84.408, 33.739,
		-84.368, 33.739,
		-84.368, 33.779,
		-84.408, 33.779,
		-84.408, 33.739,
	}, poly.FlatCoords(), 1e-9)

	last := fc.Features[len(fc.Features)-1]
	assert.Equal(t, "Southwest Atlanta", last.Properties["zone_name"])
	assert.Equal(t, 20, last.Properties["impact_score"])
}

func TestHeatmap_ScoresDescend(t *testing.T) {
	for i := 1; i < len(HeatmapZones); i++ {
		assert.LessOrEqual(t, HeatmapZones[i].Score, HeatmapZones[i-1].Score)
	}
}

func TestHeatmap_JSON(t *testing.T) {
	data, err := json.Marshal(Heatmap())
	require.NoError(t, err)

	var out struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string        `json:"type"`
				Coordinates [][][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "FeatureCollection", out.Type)
	require.Len(t, out.Features, 10)
	assert.Equal(t, "Feature", out.Features[0].Type)
	assert.Equal(t, "Polygon", out.Features[0].Geometry.Type)
	assert.Len(t, out.Features[0].Geometry.Coordinates[0], 5)
}

func TestLayer_Unknown(t *testing.T) {
	_, err := Layer(testCatalog(t), "parcels")
	assert.ErrorIs(t, err, ErrUnknownLayer)
	assert.Equal(t, 0, LayerCount(testCatalog(t), "parcels"))
}

func TestSchoolsLayer(t *testing.T) {
	cat := &catalog.Catalog{Schools: []model.School{
		{Name: "Grady High School", Lat: 33.7790, Lng: -84.3730, GradeLevel: model.GradeHigh, Enrollment: 1400, Capacity: 1400},
		{Name: "Closed", Lat: 33.7, Lng: -84.3, GradeLevel: model.GradeMiddle, Enrollment: 0, Capacity: 0},
	}}
	fc := SchoolsLayer(cat)
	require.Len(t, fc.Features, 2)

	pt, ok := fc.Features[0].Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, []float64{-84.3730, 33.7790}, pt.FlatCoords())
	assert.Equal(t, "Grady High School", fc.Features[0].Properties["name"])
	assert.InDelta(t, 100.0, fc.Features[0].Properties["capacity_pct"], 1e-9)
	assert.InDelta(t, 0.0, fc.Features[1].Properties["capacity_pct"], 1e-9)
}

func TestStationsAndIntersectionsLayers(t *testing.T) {
	cat := testCatalog(t)

	stations := StationsLayer(cat)
	require.Len(t, stations.Features, len(cat.Stations))
	assert.Equal(t, cat.Stations[0].Name, stations.Features[0].Properties["name"])
	assert.Equal(t, cat.Stations[0].Line, stations.Features[0].Properties["line"])

	inter := IntersectionsLayer(cat)
	require.Len(t, inter.Features, len(cat.Intersections))
	assert.Equal(t, cat.Intersections[0].CurrentLOS, inter.Features[0].Properties["current_los"])
}

func TestZoningLayer(t *testing.T) {
	cat := testCatalog(t)
	fc := ZoningLayer(cat)
	require.Len(t, fc.Features, len(cat.Zones))

	for i, f := range fc.Features {
		z := cat.Zones[i]
		assert.Equal(t, z.ZoneCode, f.ID)
		assert.Equal(t, z.ZoneCode, f.Properties["zone_code"])
		rule, ok := cat.Rule(z.ZoneCode)
		require.True(t, ok)
		assert.Equal(t, rule.MaxHeightFt, f.Properties["max_height_ft"])
		_, isPoly := f.Geometry.(*geom.Polygon)
		assert.True(t, isPoly)
	}
}

func TestEmptyCatalogLayers(t *testing.T) {
	cat := &catalog.Catalog{}
	for _, name := range LayerNames() {
		fc, err := Layer(cat, name)
		require.NoError(t, err)
		assert.Empty(t, fc.Features, name)

		data, err := json.Marshal(fc)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"features":[]`)
	}
}
