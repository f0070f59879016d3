package racetrack

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/racingline/utils/geometry"
)

const (
	grassColour      = "#14532d"
	tarmacColour     = "#374151"
	centerlineColour = "#fbbf24"
	checkpointColour = "#60a5fa"
	carColour        = "#ef4444"
	headlightColour  = "#fef08a"
	rayColour        = "#22d3ee"
	rayHitColour     = "#f43f5e"

	renderMargin float64 = 10

	// Car body in world units
	carLength float64 = 10
	carWidth  float64 = 6
)

// raySensor is a Sensor whose rays can be drawn
type raySensor interface {
	Sensor
	Ray(car CarState, i int) (start, end geometry.Point)
}

// viewport maps world coordinates onto an image of a given size,
// keeping the aspect ratio of the track
type viewport struct {
	min    geometry.Point
	scale  float64
	offset geometry.Point
}

func newViewport(t *Track, width, height int) viewport {
	min, max := t.Bounds()
	extent := r2.Sub(max, min)

	w := float64(width) - 2*renderMargin
	h := float64(height) - 2*renderMargin
	scale := math.Min(w/extent.X, h/extent.Y)

	offset := geometry.Point{
		X: renderMargin + (w-extent.X*scale)/2,
		Y: renderMargin + (h-extent.Y*scale)/2,
	}
	return viewport{min, scale, offset}
}

// pixel converts a point in world coordinates to pixel coordinates
func (v viewport) pixel(p geometry.Point) (float64, float64) {
	q := r2.Add(v.offset, r2.Scale(v.scale, r2.Sub(p, v.min)))
	return q.X, q.Y
}

// Image draws the track, the car, and the car's sensor rays on a new
// image of the given size. Image does not change the environment.
func (r *Racer) Image(width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image: image size must be positive, "+
			"have(%v×%v)", width, height)
	}

	dc := gg.NewContext(width, height)
	vp := newViewport(r.track, width, height)

	dc.SetHexColor(grassColour)
	dc.Clear()

	r.drawTrack(dc, vp)
	r.drawRays(dc, vp)
	r.drawCar(dc, vp)

	return dc.Image(), nil
}

// Render draws the environment and saves it as a PNG file
func (r *Racer) Render(filename string, width, height int) error {
	img, err := r.Image(width, height)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := gg.SavePNG(filename, img); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func (r *Racer) drawTrack(dc *gg.Context, vp viewport) {
	tracePath := func() {
		dc.ClearPath()
		for i := 0; i <= r.track.Len(); i++ {
			x, y := vp.pixel(r.track.At(i))
			dc.LineTo(x, y)
		}
	}

	// Tarmac
	tracePath()
	dc.SetHexColor(tarmacColour)
	dc.SetLineWidth(r.track.Width() * vp.scale)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.Stroke()

	// Centerline
	tracePath()
	dc.SetHexColor(centerlineColour)
	dc.SetLineWidth(1)
	dc.SetDash(6, 6)
	dc.Stroke()
	dc.SetDash()

	// Next checkpoint
	next := r.track.At(r.checkpoint + 1)
	x, y := vp.pixel(next)
	dc.SetHexColor(checkpointColour)
	dc.DrawCircle(x, y, 3)
	dc.Fill()
}

func (r *Racer) drawRays(dc *gg.Context, vp viewport) {
	sensor, ok := r.sensor.(raySensor)
	if !ok {
		return
	}

	readings := r.Observations()
	dc.SetLineWidth(1)
	for i := 0; i < readings.Len(); i++ {
		start, end := sensor.Ray(r.car, i)
		hit := r2.Add(start, r2.Scale(readings.AtVec(i), r2.Sub(end, start)))

		x0, y0 := vp.pixel(start)
		x1, y1 := vp.pixel(hit)
		dc.SetHexColor(rayColour)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()

		if readings.AtVec(i) < readingBounds.Max {
			dc.SetHexColor(rayHitColour)
			dc.DrawCircle(x1, y1, 2)
			dc.Fill()
		}
	}
}

func (r *Racer) drawCar(dc *gg.Context, vp viewport) {
	x, y := vp.pixel(r.car.Position())
	length, width := carLength*vp.scale, carWidth*vp.scale

	dc.Push()
	dc.Translate(x, y)
	dc.Rotate(r.car.Heading)

	dc.SetHexColor(carColour)
	dc.DrawRectangle(-length/2, -width/2, length, width)
	dc.Fill()

	dc.SetHexColor(headlightColour)
	dc.DrawRectangle(length/2-length/5, -width/2, length/5, width/4)
	dc.DrawRectangle(length/2-length/5, width/4, length/5, width/4)
	dc.Fill()

	dc.Pop()
}
