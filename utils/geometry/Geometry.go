// Package geometry implements the planar geometry used by the track
// environments: distances, segment intersection, angle normalization
// and Gaussian sampling for weight initialization.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a point in the plane
type Point = r2.Vec

// Distance returns the Euclidean distance between two points
func Distance(p, q Point) float64 {
	return r2.Norm(r2.Sub(q, p))
}

// PointSegmentDistance returns the distance from p to the closest point
// on the segment ab. The closest point is found by projecting p onto
// the line through a and b and clamping the projection parameter to
// [0, 1]. A zero-length segment is treated as the single point a.
func PointSegmentDistance(p, a, b Point) float64 {
	ab := r2.Sub(b, a)
	lenSq := r2.Norm2(ab)

	// Projection parameter; stays negative (clamped to a) for a
	// degenerate segment
	param := -1.0
	if lenSq != 0 {
		param = r2.Dot(r2.Sub(p, a), ab) / lenSq
	}

	var closest Point
	switch {
	case param < 0:
		closest = a
	case param > 1:
		closest = b
	default:
		closest = r2.Add(a, r2.Scale(param, ab))
	}

	return Distance(p, closest)
}

// Intersection returns the point at which segment ab crosses segment
// cd. The boolean return value is false if the segments are parallel
// or if the crossing point of their lines lies outside either segment.
func Intersection(a, b, c, d Point) (Point, bool) {
	tTop := (d.X-c.X)*(a.Y-c.Y) - (d.Y-c.Y)*(a.X-c.X)
	uTop := (c.Y-a.Y)*(a.X-b.X) - (c.X-a.X)*(a.Y-b.Y)
	bottom := (d.Y-c.Y)*(b.X-a.X) - (d.X-c.X)*(b.Y-a.Y)

	if bottom == 0 {
		return Point{}, false
	}

	t := tTop / bottom
	u := uTop / bottom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}

	return r2.Add(a, r2.Scale(t, r2.Sub(b, a))), true
}

// NormalizeAngle wraps an angle in radians into [-π, π)
func NormalizeAngle(θ float64) float64 {
	θ = math.Mod(θ+math.Pi, 2*math.Pi)
	if θ < 0 {
		θ += 2 * math.Pi
	}
	return θ - math.Pi
}
