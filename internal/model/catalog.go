package model

// GradeLevel is the grade band a school serves.
type GradeLevel string

const (
	GradeElementary GradeLevel = "elementary"
	GradeMiddle     GradeLevel = "middle"
	GradeHigh       GradeLevel = "high"
)

// Valid reports whether g is one of the known grade bands.
func (g GradeLevel) Valid() bool {
	switch g {
	case GradeElementary, GradeMiddle, GradeHigh:
		return true
	}
	return false
}

// School is a reference school with its current enrollment.
type School struct {
	Name       string     `json:"name" yaml:"name"`
	Lat        float64    `json:"lat" yaml:"lat"`
	Lng        float64    `json:"lng" yaml:"lng"`
	GradeLevel GradeLevel `json:"grade_level" yaml:"grade_level"`
	Enrollment int        `json:"enrollment" yaml:"enrollment"`
	Capacity   int        `json:"capacity" yaml:"capacity"`
}

// Location returns the school's coordinates.
func (s School) Location() Location { return Location{Lat: s.Lat, Lng: s.Lng} }

// TransitStation is a rail station.
type TransitStation struct {
	Name string  `json:"name" yaml:"name"`
	Line string  `json:"line" yaml:"line"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lng  float64 `json:"lng" yaml:"lng"`
}

// Location returns the station's coordinates.
func (s TransitStation) Location() Location { return Location{Lat: s.Lat, Lng: s.Lng} }

// LOS is a Highway Capacity Manual level-of-service grade, A (free flow) to F.
type LOS string

const (
	LOSA LOS = "A"
	LOSB LOS = "B"
	LOSC LOS = "C"
	LOSD LOS = "D"
	LOSE LOS = "E"
	LOSF LOS = "F"
)

// Valid reports whether l is one of the grades A to F.
func (l LOS) Valid() bool {
	switch l {
	case LOSA, LOSB, LOSC, LOSD, LOSE, LOSF:
		return true
	}
	return false
}

// Intersection is a signalized intersection with its current peak-hour load.
type Intersection struct {
	Name          string  `json:"name" yaml:"name"`
	Lat           float64 `json:"lat" yaml:"lat"`
	Lng           float64 `json:"lng" yaml:"lng"`
	CurrentVolume float64 `json:"current_volume" yaml:"current_volume"` // vehicles per hour
	CurrentLOS    LOS     `json:"current_los" yaml:"current_los"`
}

// Location returns the intersection's coordinates.
func (i Intersection) Location() Location { return Location{Lat: i.Lat, Lng: i.Lng} }

// ZoningRule holds the envelope limits of one zoning district.
type ZoningRule struct {
	ZoneCode        string   `json:"zone_code" yaml:"zone_code"`
	MaxHeightFt     int      `json:"max_height_ft" yaml:"max_height_ft"`
	MaxFAR          *float64 `json:"max_far,omitempty" yaml:"max_far,omitempty"`
	MaxUnitsPerAcre *float64 `json:"max_units_per_acre,omitempty" yaml:"max_units_per_acre,omitempty"`
}

// ZoneBoundary is the outline of a zoning district as a [lng, lat] ring.
type ZoneBoundary struct {
	ZoneCode string      `json:"zone_code" yaml:"zone_code"`
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Ring     [][]float64 `json:"ring" yaml:"ring"` // [[lng, lat], ...]
}
