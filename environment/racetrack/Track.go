// Package racetrack implements a top-down racing environment. A car
// drives at constant speed around a closed course and the agent steers
// it left, straight, or right using a fan of distance sensors.
package racetrack

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/racingline/utils/geometry"
)

const (
	// Default course generated by NewLoop
	DefaultLoopPoints int     = 60
	DefaultTrackWidth float64 = 20
)

// Track is a closed course described by an ordered centerline and a
// width. The last centerline point connects back to the first. The
// drivable corridor is every point within Width()/2 of the centerline.
//
// A Track is immutable once constructed.
type Track struct {
	centerline []geometry.Point
	width      float64
}

// NewTrack returns a new Track with the given centerline and width. At
// least two centerline points are needed to give the car a starting
// heading.
func NewTrack(centerline []geometry.Point, width float64) (*Track, error) {
	if len(centerline) < 2 {
		return nil, fmt.Errorf("newTrack: centerline needs at least 2 "+
			"points\n\twant(>=2)\n\thave(%v)", len(centerline))
	}
	if !(width > 0) || math.IsInf(width, 1) {
		return nil, fmt.Errorf("newTrack: width must be positive and "+
			"finite\n\thave(%v)", width)
	}
	for i, p := range centerline {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) ||
			math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("newTrack: centerline point %d is not "+
				"finite: %v", i, p)
		}
	}

	points := make([]geometry.Point, len(centerline))
	copy(points, centerline)

	return &Track{centerline: points, width: width}, nil
}

// NewLoop returns a twisted oval course sampled at n centerline points:
//
//	x(t) = 120 cos(t)
//	y(t) = 80 sin(t) + 30 sin(2t)
//
// for t evenly spaced in [0, 2π).
func NewLoop(n int, width float64) (*Track, error) {
	if n < 2 {
		return nil, fmt.Errorf("newLoop: need at least 2 points\n\t"+
			"have(%v)", n)
	}

	points := make([]geometry.Point, n)
	for i := range points {
		t := float64(i) / float64(n) * 2 * math.Pi
		points[i] = geometry.Point{
			X: 120 * math.Cos(t),
			Y: 80*math.Sin(t) + 30*math.Sin(2*t),
		}
	}

	return NewTrack(points, width)
}

// Len returns the number of centerline points
func (t *Track) Len() int {
	return len(t.centerline)
}

// Width returns the full width of the track
func (t *Track) Width() float64 {
	return t.width
}

// HalfWidth returns the maximum distance from the centerline that is
// still on the track
func (t *Track) HalfWidth() float64 {
	return t.width / 2
}

// At returns the i-th centerline point. Indices wrap around the course.
func (t *Track) At(i int) geometry.Point {
	n := len(t.centerline)
	return t.centerline[((i%n)+n)%n]
}

// Segment returns the endpoints of the i-th centerline segment. Segment
// Len()-1 is the closing segment from the last point back to the first.
func (t *Track) Segment(i int) (a, b geometry.Point) {
	return t.At(i), t.At(i + 1)
}

// Centerline returns a copy of the centerline points
func (t *Track) Centerline() []geometry.Point {
	points := make([]geometry.Point, len(t.centerline))
	copy(points, t.centerline)
	return points
}

// NearestSegment returns the index of the centerline segment closest
// to p and the distance from p to that segment. All Len() segments are
// considered, including the closing one.
func (t *Track) NearestSegment(p geometry.Point) (int, float64) {
	index, minDist := 0, math.Inf(1)

	for i := range t.centerline {
		a, b := t.Segment(i)
		if d := geometry.PointSegmentDistance(p, a, b); d < minDist {
			index, minDist = i, d
		}
	}
	return index, minDist
}

// DistanceToCenterline returns the shortest distance from p to the
// closed centerline
func (t *Track) DistanceToCenterline(p geometry.Point) float64 {
	_, d := t.NearestSegment(p)
	return d
}

// OnTrack returns whether p lies inside the drivable corridor
func (t *Track) OnTrack(p geometry.Point) bool {
	return t.DistanceToCenterline(p) <= t.HalfWidth()
}

// TangentAt returns the direction, in radians, of the centerline
// segment nearest to p
func (t *Track) TangentAt(p geometry.Point) float64 {
	i, _ := t.NearestSegment(p)
	a, b := t.Segment(i)
	dir := r2.Sub(b, a)
	return math.Atan2(dir.Y, dir.X)
}

// Bounds returns the corners of the smallest axis-aligned box that
// contains the whole corridor
func (t *Track) Bounds() (min, max geometry.Point) {
	min = geometry.Point{X: math.Inf(1), Y: math.Inf(1)}
	max = geometry.Point{X: math.Inf(-1), Y: math.Inf(-1)}

	for _, p := range t.centerline {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}

	pad := geometry.Point{X: t.HalfWidth(), Y: t.HalfWidth()}
	return r2.Sub(min, pad), r2.Add(max, pad)
}

// String returns a string representation of the track
func (t *Track) String() string {
	return fmt.Sprintf("Track  |  Points: %v  |  Width: %v", t.Len(),
		t.width)
}
