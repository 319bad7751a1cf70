// Package catalog holds the read-only reference datasets (schools, transit
// stations, intersections, zoning rules and zone boundaries) the impact
// calculators run against. A Catalog is built once at startup and shared by
// pointer; nothing mutates it afterwards.
package catalog

import (
	_ "embed"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/impact-cli/internal/geo"
	"github.com/sells-group/impact-cli/internal/model"
)

//go:embed atlanta.yaml
var atlantaYAML []byte

// Zone is a zoning boundary with its prebuilt polygon.
type Zone struct {
	model.ZoneBoundary
	Polygon *geom.Polygon
}

// Catalog is the set of reference entities for one city.
type Catalog struct {
	Schools       []model.School
	Stations      []model.TransitStation
	Intersections []model.Intersection
	ZoningRules   map[string]model.ZoningRule
	Zones         []Zone
	LoadedAt      time.Time
}

// Counts is the number of entities in each layer.
type Counts struct {
	Schools       int `json:"schools"`
	Stations      int `json:"marta_stations"`
	Intersections int `json:"intersections"`
	ZoningRules   int `json:"zoning_rules"`
	Zones         int `json:"zones"`
}

// file is the on-disk YAML layout.
type file struct {
	Schools        []model.School         `yaml:"schools"`
	Stations       []model.TransitStation `yaml:"transit_stations"`
	Intersections  []model.Intersection   `yaml:"intersections"`
	ZoningRules    []model.ZoningRule     `yaml:"zoning_rules"`
	ZoneBoundaries []model.ZoneBoundary   `yaml:"zone_boundaries"`
}

// Default returns the embedded Atlanta catalog.
func Default() (*Catalog, error) {
	cat, err := Parse(atlantaYAML)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: embedded dataset")
	}
	return cat, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", path)
	}
	return cat, nil
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "catalog: decode yaml")
	}
	return build(f.Schools, f.Stations, f.Intersections, f.ZoningRules, f.ZoneBoundaries)
}

func build(
	schools []model.School,
	stations []model.TransitStation,
	intersections []model.Intersection,
	rules []model.ZoningRule,
	bounds []model.ZoneBoundary,
) (*Catalog, error) {
	cat := &Catalog{
		Schools:       schools,
		Stations:      stations,
		Intersections: intersections,
		ZoningRules:   make(map[string]model.ZoningRule, len(rules)),
		LoadedAt:      time.Now().UTC(),
	}

	for i, s := range schools {
		if !s.GradeLevel.Valid() {
			return nil, eris.Errorf("catalog: school %d (%s) has unknown grade_level %q", i, s.Name, s.GradeLevel)
		}
	}
	for i, x := range intersections {
		if !x.CurrentLOS.Valid() {
			return nil, eris.Errorf("catalog: intersection %d (%s) has unknown current_los %q", i, x.Name, x.CurrentLOS)
		}
	}

	for _, r := range rules {
		if r.ZoneCode == "" {
			return nil, eris.New("catalog: zoning rule without zone_code")
		}
		if _, dup := cat.ZoningRules[r.ZoneCode]; dup {
			return nil, eris.Errorf("catalog: duplicate zoning rule %q", r.ZoneCode)
		}
		cat.ZoningRules[r.ZoneCode] = r
	}

	if err := cat.setZones(bounds); err != nil {
		return nil, err
	}
	return cat, nil
}

// setZones replaces the zone boundaries. Only called while a catalog is
// being assembled.
func (c *Catalog) setZones(bounds []model.ZoneBoundary) error {
	zones := make([]Zone, 0, len(bounds))
	for i, b := range bounds {
		if _, ok := c.ZoningRules[b.ZoneCode]; !ok {
			return eris.Errorf("catalog: zone boundary %d references unknown zone %q", i, b.ZoneCode)
		}
		for j, pt := range b.Ring {
			if len(pt) != 2 {
				return eris.Errorf("catalog: zone boundary %d vertex %d has %d coordinates", i, j, len(pt))
			}
		}
		poly := geo.Footprint(b.Ring)
		if poly == nil {
			return eris.Errorf("catalog: zone boundary %d (%s) has fewer than 3 vertices", i, b.ZoneCode)
		}
		zones = append(zones, Zone{ZoneBoundary: b, Polygon: poly})
	}
	c.Zones = zones
	return nil
}

// Rule returns the zoning rule for a zone code.
func (c *Catalog) Rule(code string) (model.ZoningRule, bool) {
	r, ok := c.ZoningRules[code]
	return r, ok
}

// ResolveZone returns the code of the first zone, in catalog order, whose
// boundary contains loc.
func (c *Catalog) ResolveZone(loc model.Location) (string, error) {
	for _, z := range c.Zones {
		if geo.Contains(z.Polygon, loc.Lng, loc.Lat) {
			return z.ZoneCode, nil
		}
	}
	return "", eris.Wrapf(model.ErrUnresolvedZone, "no zone boundary contains (%.6f, %.6f)", loc.Lat, loc.Lng)
}

// Counts returns per-layer entity counts.
func (c *Catalog) Counts() Counts {
	return Counts{
		Schools:       len(c.Schools),
		Stations:      len(c.Stations),
		Intersections: len(c.Intersections),
		ZoningRules:   len(c.ZoningRules),
		Zones:         len(c.Zones),
	}
}

// Boundaries returns the zone boundaries without their polygons.
func (c *Catalog) Boundaries() []model.ZoneBoundary {
	out := make([]model.ZoneBoundary, len(c.Zones))
	for i, z := range c.Zones {
		out[i] = z.ZoneBoundary
	}
	return out
}
