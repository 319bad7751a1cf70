package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Footprint builds a closed XY polygon from [x, y] vertices. It returns nil
// when fewer than three vertices are given.
func Footprint(points [][]float64) *geom.Polygon {
	if len(points) < 3 {
		return nil
	}

	flat := make([]float64, 0, (len(points)+1)*2)
	for _, p := range points {
		flat = append(flat, p[0], p[1])
	}
	first, last := points[0], points[len(points)-1]
	if first[0] != last[0] || first[1] != last[1] {
		flat = append(flat, first[0], first[1])
	}

	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// FootprintArea returns the planar area enclosed by the vertices using the
// shoelace formula, in squared input units. Fewer than three vertices yield 0.
func FootprintArea(points [][]float64) float64 {
	poly := Footprint(points)
	if poly == nil {
		return 0
	}
	return RingArea(poly.LinearRing(0))
}

// RingArea returns the unsigned shoelace area of a linear ring.
func RingArea(ring *geom.LinearRing) float64 {
	return math.Abs(signedArea(ring.FlatCoords(), ring.Stride()))
}

func signedArea(flat []float64, stride int) float64 {
	n := len(flat) / stride
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := flat[i*stride], flat[i*stride+1]
		xj, yj := flat[j*stride], flat[j*stride+1]
		sum += xi*yj - xj*yi
	}
	return sum / 2
}

// Contains reports whether (x, y) lies inside poly: inside the exterior ring
// and outside every hole. Points exactly on an edge may fall either way.
func Contains(poly *geom.Polygon, x, y float64) bool {
	if poly == nil || poly.NumLinearRings() == 0 {
		return false
	}
	if !ringContains(poly.LinearRing(0), x, y) {
		return false
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		if ringContains(poly.LinearRing(i), x, y) {
			return false
		}
	}
	return true
}

// ringContains is an even-odd ray cast toward +x.
func ringContains(ring *geom.LinearRing, x, y float64) bool {
	flat, stride := ring.FlatCoords(), ring.Stride()
	n := len(flat) / stride
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := flat[i*stride], flat[i*stride+1]
		xj, yj := flat[j*stride], flat[j*stride+1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
