package catalog

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/sells-group/impact-cli/internal/db"
	"github.com/sells-group/impact-cli/internal/model"
)

const srid = 4326

const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS postgis;
CREATE SCHEMA IF NOT EXISTS catalog;
CREATE TABLE IF NOT EXISTS catalog.schools (
	ord         INTEGER NOT NULL DEFAULT 0,
	name        TEXT NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	lng         DOUBLE PRECISION NOT NULL,
	grade_level TEXT NOT NULL,
	enrollment  INTEGER NOT NULL,
	capacity    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog.transit_stations (
	ord  INTEGER NOT NULL DEFAULT 0,
	name TEXT NOT NULL,
	line TEXT NOT NULL,
	lat  DOUBLE PRECISION NOT NULL,
	lng  DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog.intersections (
	ord            INTEGER NOT NULL DEFAULT 0,
	name           TEXT NOT NULL,
	lat            DOUBLE PRECISION NOT NULL,
	lng            DOUBLE PRECISION NOT NULL,
	current_volume DOUBLE PRECISION NOT NULL,
	current_los    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog.zoning_rules (
	zone_code          TEXT PRIMARY KEY,
	max_height_ft      INTEGER NOT NULL,
	max_far            DOUBLE PRECISION,
	max_units_per_acre DOUBLE PRECISION
);
CREATE TABLE IF NOT EXISTS catalog.zone_boundaries (
	ord       INTEGER NOT NULL,
	zone_code TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	geom      geometry(Polygon, 4326) NOT NULL
);
ALTER TABLE catalog.schools ADD COLUMN IF NOT EXISTS ord INTEGER NOT NULL DEFAULT 0;
ALTER TABLE catalog.transit_stations ADD COLUMN IF NOT EXISTS ord INTEGER NOT NULL DEFAULT 0;
ALTER TABLE catalog.intersections ADD COLUMN IF NOT EXISTS ord INTEGER NOT NULL DEFAULT 0;`

// LoadPostgres reads the catalog from the catalog.* tables.
func LoadPostgres(ctx context.Context, pool db.Pool) (*Catalog, error) {
	schools, err := queryAll(ctx, pool,
		`SELECT name, lat, lng, grade_level, enrollment, capacity FROM catalog.schools ORDER BY ord, name`,
		func(rows pgx.Rows) (model.School, error) {
			var s model.School
			err := rows.Scan(&s.Name, &s.Lat, &s.Lng, &s.GradeLevel, &s.Enrollment, &s.Capacity)
			return s, err
		})
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load schools")
	}

	stations, err := queryAll(ctx, pool,
		`SELECT name, line, lat, lng FROM catalog.transit_stations ORDER BY ord, name`,
		func(rows pgx.Rows) (model.TransitStation, error) {
			var s model.TransitStation
			err := rows.Scan(&s.Name, &s.Line, &s.Lat, &s.Lng)
			return s, err
		})
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load transit stations")
	}

	intersections, err := queryAll(ctx, pool,
		`SELECT name, lat, lng, current_volume, current_los FROM catalog.intersections ORDER BY ord, name`,
		func(rows pgx.Rows) (model.Intersection, error) {
			var i model.Intersection
			err := rows.Scan(&i.Name, &i.Lat, &i.Lng, &i.CurrentVolume, &i.CurrentLOS)
			return i, err
		})
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load intersections")
	}

	rules, err := queryAll(ctx, pool,
		`SELECT zone_code, max_height_ft, max_far, max_units_per_acre FROM catalog.zoning_rules ORDER BY zone_code`,
		func(rows pgx.Rows) (model.ZoningRule, error) {
			var r model.ZoningRule
			err := rows.Scan(&r.ZoneCode, &r.MaxHeightFt, &r.MaxFAR, &r.MaxUnitsPerAcre)
			return r, err
		})
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load zoning rules")
	}

	bounds, err := queryAll(ctx, pool,
		`SELECT zone_code, name, ST_AsEWKB(geom) FROM catalog.zone_boundaries ORDER BY ord`,
		func(rows pgx.Rows) (model.ZoneBoundary, error) {
			var (
				b   model.ZoneBoundary
				raw []byte
			)
			if err := rows.Scan(&b.ZoneCode, &b.Name, &raw); err != nil {
				return b, err
			}
			ring, err := decodeRing(raw)
			if err != nil {
				return b, eris.Wrapf(err, "zone %s", b.ZoneCode)
			}
			b.Ring = ring
			return b, nil
		})
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load zone boundaries")
	}

	return build(schools, stations, intersections, rules, bounds)
}

func queryAll[T any](ctx context.Context, pool db.Pool, sql string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// decodeRing returns the exterior ring of an EWKB polygon as [x, y] pairs.
func decodeRing(raw []byte) ([][]float64, error) {
	g, err := ewkb.Unmarshal(raw)
	if err != nil {
		return nil, eris.Wrap(err, "decode geometry")
	}
	poly, ok := g.(*geom.Polygon)
	if !ok || poly.NumLinearRings() == 0 {
		return nil, eris.Errorf("geometry is %T, want polygon", g)
	}

	ring := poly.LinearRing(0)
	flat, stride := ring.FlatCoords(), ring.Stride()
	out := make([][]float64, 0, len(flat)/stride)
	for i := 0; i+1 < len(flat); i += stride {
		out = append(out, []float64{flat[i], flat[i+1]})
	}
	return out, nil
}

// CopyToPostgres creates the catalog.* tables if needed and replaces their
// contents with cat.
func CopyToPostgres(ctx context.Context, pool db.Pool, cat *Catalog) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return eris.Wrap(err, "catalog: create schema")
	}

	schools := make([][]any, len(cat.Schools))
	for i, s := range cat.Schools {
		schools[i] = []any{i, s.Name, s.Lat, s.Lng, string(s.GradeLevel), s.Enrollment, s.Capacity}
	}

	stations := make([][]any, len(cat.Stations))
	for i, s := range cat.Stations {
		stations[i] = []any{i, s.Name, s.Line, s.Lat, s.Lng}
	}

	intersections := make([][]any, len(cat.Intersections))
	for i, x := range cat.Intersections {
		intersections[i] = []any{i, x.Name, x.Lat, x.Lng, x.CurrentVolume, string(x.CurrentLOS)}
	}

	codes := make([]string, 0, len(cat.ZoningRules))
	for code := range cat.ZoningRules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	rules := make([][]any, len(codes))
	for i, code := range codes {
		r := cat.ZoningRules[code]
		rules[i] = []any{r.ZoneCode, r.MaxHeightFt, r.MaxFAR, r.MaxUnitsPerAcre}
	}

	zones := make([][]any, len(cat.Zones))
	for i, z := range cat.Zones {
		poly := geom.NewPolygonFlat(geom.XY, z.Polygon.FlatCoords(), z.Polygon.Ends()).SetSRID(srid)
		raw, err := ewkb.Marshal(poly, ewkb.NDR)
		if err != nil {
			return eris.Wrapf(err, "catalog: encode zone %s", z.ZoneCode)
		}
		zones[i] = []any{i, z.ZoneCode, z.Name, raw}
	}

	tables := []struct {
		name    string
		columns []string
		rows    [][]any
	}{
		{"catalog.schools", []string{"ord", "name", "lat", "lng", "grade_level", "enrollment", "capacity"}, schools},
		{"catalog.transit_stations", []string{"ord", "name", "line", "lat", "lng"}, stations},
		{"catalog.intersections", []string{"ord", "name", "lat", "lng", "current_volume", "current_los"}, intersections},
		{"catalog.zoning_rules", []string{"zone_code", "max_height_ft", "max_far", "max_units_per_acre"}, rules},
		{"catalog.zone_boundaries", []string{"ord", "zone_code", "name", "geom"}, zones},
	}

	for _, t := range tables {
		n, err := db.ReplaceTable(ctx, pool, t.name, t.columns, t.rows)
		if err != nil {
			return eris.Wrap(err, "catalog: copy")
		}
		zap.L().Info("catalog: table loaded", zap.String("table", t.name), zap.Int64("rows", n))
	}
	return nil
}
