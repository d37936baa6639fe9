// Package sexp provides shared S-expression helpers and coordinate types for
// KiCad board files.
package sexp

import "math"

// Coordinate conversion constants.
// Board coordinates are held as integer nanometres, the unit pcbnew uses
// internally. Files store millimetres; drawings are made in millimetres.
const (
	NanometersToMM       = 1e-6 // Convert nm to mm (multiply by this)
	MMToNanometers       = 1e6  // Convert mm to nm (multiply by this)
	DecidegreesToDegrees = 0.1  // Orientations are held in tenths of a degree
	DegreesToDecidegrees = 10.0 // Convert degrees to decidegrees
)

// Coord is a board coordinate or length in nanometres.
type Coord int64

// FromMM converts a millimetre value read from a file to board units.
func FromMM(mm float64) Coord {
	return Coord(math.Round(mm * MMToNanometers))
}

// MM converts board units to millimetres.
func (c Coord) MM() float64 {
	return float64(c) * NanometersToMM
}

// Point is a position in board units.
type Point struct {
	X Coord
	Y Coord
}

// Pt builds a point from millimetre values.
func Pt(xMM, yMM float64) Point {
	return Point{X: FromMM(xMM), Y: FromMM(yMM)}
}

// MM returns the point in millimetres.
func (p Point) MM() (x, y float64) {
	return p.X.MM(), p.Y.MM()
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size represents dimensions in board units
type Size struct {
	Width  Coord
	Height Coord
}

// MM returns the size in millimetres.
func (s Size) MM() (w, h float64) {
	return s.Width.MM(), s.Height.MM()
}

// Decidegrees is an orientation in tenths of a degree.
type Decidegrees int64

// FromDegrees converts a degree value read from a file.
func FromDegrees(deg float64) Decidegrees {
	return Decidegrees(math.Round(deg * DegreesToDecidegrees))
}

// Degrees returns the orientation in degrees.
func (d Decidegrees) Degrees() float64 {
	return float64(d) * DecidegreesToDegrees
}

// Rotate turns (x, y) by deg degrees counter-clockwise as seen on screen,
// with Y pointing down. KiCad orientations use this direction.
func Rotate(x, y, deg float64) (float64, float64) {
	if deg == 0 {
		return x, y
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return x*cos + y*sin, -x*sin + y*cos
}

// RotateAbout turns p about c by deg degrees, in the direction of Rotate.
func (p Point) RotateAbout(c Point, deg float64) Point {
	x, y := Rotate(float64(p.X-c.X), float64(p.Y-c.Y), deg)
	return Point{X: c.X + Coord(math.Round(x)), Y: c.Y + Coord(math.Round(y))}
}

// Rect is an axis-aligned rectangle: top-left position plus size.
type Rect struct {
	Position Point
	Size     Size
}

// Max returns the corner opposite to Position.
func (r Rect) Max() Point {
	return Point{X: r.Position.X + r.Size.Width, Y: r.Position.Y + r.Size.Height}
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.Position.X + r.Size.Width/2,
		Y: r.Position.Y + r.Size.Height/2,
	}
}

// BoundingBox accumulates the extent of a set of points.
// The zero value is empty.
type BoundingBox struct {
	Min   Point
	Max   Point
	valid bool
}

// IsEmpty reports whether no point has been added yet.
func (bb BoundingBox) IsEmpty() bool {
	return !bb.valid
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(p Point) {
	if !bb.valid {
		bb.Min, bb.Max, bb.valid = p, p, true
		return
	}
	bb.Min.X = min(bb.Min.X, p.X)
	bb.Min.Y = min(bb.Min.Y, p.Y)
	bb.Max.X = max(bb.Max.X, p.X)
	bb.Max.Y = max(bb.Max.Y, p.Y)
}

// Rect converts the box to a Rect. An empty box yields the zero Rect.
func (bb BoundingBox) Rect() Rect {
	if !bb.valid {
		return Rect{}
	}
	return Rect{
		Position: bb.Min,
		Size:     Size{Width: bb.Max.X - bb.Min.X, Height: bb.Max.Y - bb.Min.Y},
	}
}
