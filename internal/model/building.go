// Package model holds the value types shared by the impact pipeline, its
// reference catalogs, and the outer surfaces (API, CLI, store).
package model

import (
	"github.com/rotisserie/eris"
)

// Location is a WGS84 point.
type Location struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// BuildingType is the declared use of a proposed building.
type BuildingType string

const (
	BuildingResidential BuildingType = "residential"
	BuildingCommercial  BuildingType = "commercial"
	BuildingMixedUse    BuildingType = "mixed-use"
)

// Story bounds accepted by Validate.
const (
	MinStories = 1
	MaxStories = 100
)

// BuildingRequest describes a proposed development.
type BuildingRequest struct {
	Location      Location     `json:"location"`
	Footprint     [][]float64  `json:"footprint"` // [[lng, lat], ...]; last vertex need not repeat the first
	Type          BuildingType `json:"type"`
	Units         int          `json:"units"`
	Stories       int          `json:"stories"`
	ParkingSpaces int          `json:"parking_spaces"`
	Zone          string       `json:"zone,omitempty"` // optional zone code override
}

// Validate checks the request ranges. Every failure wraps ErrInvalidInput.
// A footprint with fewer than three vertices is valid and yields zero area.
func (r *BuildingRequest) Validate() error {
	if r.Location.Lat < -90 || r.Location.Lat > 90 {
		return eris.Wrapf(ErrInvalidInput, "latitude %.6f out of range", r.Location.Lat)
	}
	if r.Location.Lng < -180 || r.Location.Lng > 180 {
		return eris.Wrapf(ErrInvalidInput, "longitude %.6f out of range", r.Location.Lng)
	}
	if r.Units <= 0 {
		return eris.Wrapf(ErrInvalidInput, "units must be positive, got %d", r.Units)
	}
	if r.Stories < MinStories || r.Stories > MaxStories {
		return eris.Wrapf(ErrInvalidInput, "stories must be between %d and %d, got %d", MinStories, MaxStories, r.Stories)
	}
	if r.ParkingSpaces < 0 {
		return eris.Wrapf(ErrInvalidInput, "parking spaces must be non-negative, got %d", r.ParkingSpaces)
	}
	for i, pt := range r.Footprint {
		if len(pt) != 2 {
			return eris.Wrapf(ErrInvalidInput, "footprint vertex %d has %d coordinates, want 2", i, len(pt))
		}
		if pt[0] < -180 || pt[0] > 180 || pt[1] < -90 || pt[1] > 90 {
			return eris.Wrapf(ErrInvalidInput, "footprint vertex %d [%g, %g] out of range", i, pt[0], pt[1])
		}
	}
	return nil
}
