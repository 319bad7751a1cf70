package model

import "github.com/rotisserie/eris"

// Error kinds surfaced by the analysis pipeline. Callers match them with
// eris.Is after any amount of wrapping.
var (
	// ErrInvalidInput marks a malformed building request.
	ErrInvalidInput = eris.New("invalid input")
	// ErrUnresolvedZone marks a location that no zoning boundary covers.
	ErrUnresolvedZone = eris.New("unresolved zone")
	// ErrNotFound marks a lookup of an analysis that does not exist.
	ErrNotFound = eris.New("not found")
)
