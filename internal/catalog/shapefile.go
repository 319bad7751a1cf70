package catalog

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/model"
)

// zoneCodeFields are the attribute names checked, in order, for a district's zone code.
var zoneCodeFields = []string{"zone_code", "zoneclass", "zoning"}

// LoadZoningShapefile reads zoning district polygons from a shapefile. Each
// record's first ring becomes one boundary, in file order.
func LoadZoningShapefile(path string) ([]model.ZoneBoundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	codeIdx := -1
	for _, name := range zoneCodeFields {
		if idx, ok := fieldIdx[name]; ok {
			codeIdx = idx
			break
		}
	}
	if codeIdx < 0 {
		return nil, eris.Errorf("catalog: shapefile %s has no zone code attribute (want one of %v)", path, zoneCodeFields)
	}
	nameIdx, hasName := fieldIdx["name"]

	var (
		bounds  []model.ZoneBoundary
		skipped int
	)
	for reader.Next() {
		_, shape := reader.Shape()
		code := attribute(reader.Attribute(codeIdx))
		if code == "" {
			skipped++
			continue
		}
		ring := exteriorRing(shape)
		if len(ring) < 3 {
			skipped++
			continue
		}
		b := model.ZoneBoundary{ZoneCode: code, Ring: ring}
		if hasName {
			b.Name = attribute(reader.Attribute(nameIdx))
		}
		bounds = append(bounds, b)
	}

	if skipped > 0 {
		zap.L().Debug("catalog: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(bounds) == 0 {
		return nil, eris.Errorf("catalog: shapefile %s has no usable zone polygons", path)
	}
	return bounds, nil
}

func attribute(v string) string {
	return strings.TrimSpace(strings.TrimRight(v, "\x00"))
}

// exteriorRing returns the first part of a polygon shape as [x, y] pairs.
// Other shape types yield nil.
func exteriorRing(shape shp.Shape) [][]float64 {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	start := p.Parts[0]
	end := int32(len(p.Points))
	if p.NumParts > 1 {
		end = p.Parts[1]
	}

	ring := make([][]float64, 0, end-start)
	for j := start; j < end; j++ {
		ring = append(ring, []float64{p.Points[j].X, p.Points[j].Y})
	}
	return ring
}
