package racetrack

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/racingline/utils/floatutils"
	"github.com/samuelfneumann/racingline/utils/geometry"
)

const (
	// Default sensor configuration
	DefaultRays      int     = 5
	DefaultRayLength float64 = 100
	DefaultFOV       float64 = math.Pi / 2
	DefaultSamples   int     = 20

	// Hits closer than this to the centerline are not on a wall
	wallTolerance float64 = 1e-9
)

// readingBounds bounds every sensor reading
var readingBounds = r1.Interval{Min: 0.0, Max: 1.0}

// Sensor computes the observation of a car on a track. Each component
// of the observation is the distance along one ray to the edge of the
// track, as a fraction of the ray length. A reading of 1.0 means that
// no edge was found within range.
type Sensor interface {
	Sense(t *Track, car CarState) *mat.VecDense
	Rays() int
}

// rays holds the layout of a fan of rays centered on the car's heading
type rays struct {
	numRays   int
	rayLength float64
	fov       float64
}

func newRays(numRays int, rayLength, fov float64) (rays, error) {
	if numRays <= 0 {
		return rays{}, fmt.Errorf("number of rays must be positive, "+
			"have(%v)", numRays)
	}
	if !(rayLength > 0) || math.IsInf(rayLength, 1) {
		return rays{}, fmt.Errorf("ray length must be positive and "+
			"finite, have(%v)", rayLength)
	}
	if !(fov >= 0) || math.IsInf(fov, 1) {
		return rays{}, fmt.Errorf("field of view must be non-negative and "+
			"finite, have(%v)", fov)
	}
	return rays{numRays, rayLength, fov}, nil
}

// Rays returns the number of rays in the fan
func (r rays) Rays() int {
	return r.numRays
}

// angle returns the absolute direction of the i-th ray. Rays are spread
// evenly from heading-fov/2 to heading+fov/2. A single ray points along
// the heading.
func (r rays) angle(heading float64, i int) float64 {
	if r.numRays == 1 {
		return heading
	}
	return heading - r.fov/2 + r.fov/float64(r.numRays-1)*float64(i)
}

// end returns the far end of the i-th ray cast from the car
func (r rays) end(car CarState, i int) geometry.Point {
	θ := r.angle(car.Heading, i)
	dir := geometry.Point{X: math.Cos(θ), Y: math.Sin(θ)}
	return r2.Add(car.Position(), r2.Scale(r.rayLength, dir))
}

// Ray returns the start and the far end of the i-th ray cast from the
// car
func (r rays) Ray(car CarState, i int) (start, end geometry.Point) {
	return car.Position(), r.end(car, i)
}

// RayLength returns the range of each ray
func (r rays) RayLength() float64 {
	return r.rayLength
}

// MarchingSensor approximates each ray reading by sampling the ray at
// evenly spaced points and reporting the first sample that falls
// outside the track. Readings are therefore quantized to multiples of
// 1/samples.
type MarchingSensor struct {
	rays
	samples int
}

// NewMarchingSensor returns a new MarchingSensor with numRays rays of
// length rayLength spread over the field of view fov, in radians. Each
// ray is checked at samples points.
func NewMarchingSensor(numRays int, rayLength, fov float64,
	samples int) (*MarchingSensor, error) {
	r, err := newRays(numRays, rayLength, fov)
	if err != nil {
		return nil, fmt.Errorf("newMarchingSensor: %w", err)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("newMarchingSensor: samples must be "+
			"positive, have(%v)", samples)
	}
	return &MarchingSensor{r, samples}, nil
}

// Sense returns the sensor readings of the car on the track
func (m *MarchingSensor) Sense(t *Track, car CarState) *mat.VecDense {
	readings := mat.NewVecDense(m.numRays, nil)
	start := car.Position()

	for i := 0; i < m.numRays; i++ {
		end := m.end(car, i)
		readings.SetVec(i, m.cast(t, start, end))
	}
	return readings
}

// cast marches along the ray from start to end and returns the
// fraction of the ray at which the first off-track sample was found
func (m *MarchingSensor) cast(t *Track, start, end geometry.Point) float64 {
	ray := r2.Sub(end, start)

	for j := 1; j <= m.samples; j++ {
		frac := float64(j) / float64(m.samples)
		p := r2.Add(start, r2.Scale(frac, ray))
		if !t.OnTrack(p) {
			return frac
		}
	}
	return readingBounds.Max
}

// ExactSensor computes each ray reading by intersecting the ray with
// the walls of the track, which are the centerline segments offset by
// the half-width to either side. Walls at sharp corners may overlap or
// leave small gaps. Crossings that lie strictly inside the corridor
// are ignored, so only the true edge of the track is reported.
type ExactSensor struct {
	rays
}

// NewExactSensor returns a new ExactSensor with numRays rays of length
// rayLength spread over the field of view fov, in radians
func NewExactSensor(numRays int, rayLength, fov float64) (*ExactSensor,
	error) {
	r, err := newRays(numRays, rayLength, fov)
	if err != nil {
		return nil, fmt.Errorf("newExactSensor: %w", err)
	}
	return &ExactSensor{r}, nil
}

// Sense returns the sensor readings of the car on the track
func (e *ExactSensor) Sense(t *Track, car CarState) *mat.VecDense {
	readings := mat.NewVecDense(e.numRays, nil)
	start := car.Position()

	// A car that has left the track is already touching a wall
	if !t.OnTrack(start) {
		return readings
	}

	edges := walls(t)
	for i := 0; i < e.numRays; i++ {
		end := e.end(car, i)
		reading := readingBounds.Max

		for _, wall := range edges {
			hit, ok := geometry.Intersection(start, end, wall[0], wall[1])
			if !ok {
				continue
			}
			if t.DistanceToCenterline(hit) < t.HalfWidth()-wallTolerance {
				continue
			}
			frac := geometry.Distance(start, hit) / e.rayLength
			reading = math.Min(reading, frac)
		}
		readings.SetVec(i, floatutils.ClipInterval(reading, readingBounds))
	}
	return readings
}

// walls returns both offset walls of every non-degenerate centerline
// segment
func walls(t *Track) [][2]geometry.Point {
	out := make([][2]geometry.Point, 0, 2*t.Len())

	for i := 0; i < t.Len(); i++ {
		a, b := t.Segment(i)
		dir := r2.Sub(b, a)
		length := r2.Norm(dir)
		if length == 0 {
			continue
		}

		normal := r2.Scale(t.HalfWidth()/length, geometry.Point{X: -dir.Y,
			Y: dir.X})
		out = append(out,
			[2]geometry.Point{r2.Add(a, normal), r2.Add(b, normal)},
			[2]geometry.Point{r2.Sub(a, normal), r2.Sub(b, normal)},
		)
	}
	return out
}
