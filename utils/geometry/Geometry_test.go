package geometry

import (
	"math"
	"testing"
)

const tol = 1e-12

func TestDistance(t *testing.T) {
	if d := Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}); d != 5 {
		t.Errorf("distance: want(5) have(%v)", d)
	}
	if d := Distance(Point{X: -1, Y: 2}, Point{X: -1, Y: 2}); d != 0 {
		t.Errorf("distance to self: want(0) have(%v)", d)
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a, b := Point{X: 0, Y: 0}, Point{X: 10, Y: 0}

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"on segment", Point{X: 4, Y: 0}, 0},
		{"on endpoint", Point{X: 10, Y: 0}, 0},
		{"interior projection", Point{X: 5, Y: 3}, 3},
		{"interior projection below", Point{X: 2, Y: -7}, 7},
		{"before start", Point{X: -3, Y: 4}, 5},
		{"past end", Point{X: 13, Y: -4}, 5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := PointSegmentDistance(test.p, a, b)
			if math.Abs(got-test.want) > tol {
				t.Errorf("want(%v) have(%v)", test.want, got)
			}
		})
	}
}

func TestPointSegmentDistanceDegenerate(t *testing.T) {
	a := Point{X: 1, Y: 1}
	got := PointSegmentDistance(Point{X: 4, Y: 5}, a, a)
	if math.IsNaN(got) || math.Abs(got-5) > tol {
		t.Errorf("zero-length segment: want(5) have(%v)", got)
	}
}

func TestIntersection(t *testing.T) {
	p, ok := Intersection(
		Point{X: 0, Y: 0}, Point{X: 2, Y: 2},
		Point{X: 0, Y: 2}, Point{X: 2, Y: 0},
	)
	if !ok {
		t.Fatal("crossing segments: expected an intersection")
	}
	if math.Abs(p.X-1) > tol || math.Abs(p.Y-1) > tol {
		t.Errorf("intersection: want(1, 1) have(%v, %v)", p.X, p.Y)
	}

	// Lines cross, but beyond the end of the first segment
	if _, ok := Intersection(
		Point{X: 0, Y: 0}, Point{X: 1, Y: 0},
		Point{X: 2, Y: -1}, Point{X: 2, Y: 1},
	); ok {
		t.Error("disjoint segments: expected no intersection")
	}

	// Parallel
	if _, ok := Intersection(
		Point{X: 0, Y: 0}, Point{X: 1, Y: 0},
		Point{X: 0, Y: 1}, Point{X: 1, Y: 1},
	); ok {
		t.Error("parallel segments: expected no intersection")
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{20*math.Pi + 0.25, 0.25},
		{-20*math.Pi - 0.25, -0.25},
	}

	for _, test := range tests {
		got := NormalizeAngle(test.in)
		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("normalize(%v): want(%v) have(%v)", test.in, test.want,
				got)
		}
		if got < -math.Pi || got >= math.Pi {
			t.Errorf("normalize(%v) = %v outside [-π, π)", test.in, got)
		}
	}
}
