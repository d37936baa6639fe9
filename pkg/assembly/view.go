package assembly

import (
	"seehuhn.de/go/geom/vec"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp"
)

// Extent is an axis-aligned area in board millimetres.
type Extent struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (e Extent) Width() float64  { return e.MaxX - e.MinX }
func (e Extent) Height() float64 { return e.MaxY - e.MinY }

// View maps board millimetres to page-local millimetres: the origin moves
// to the top-left corner of the board extent, Y grows downwards (board
// min-Y at the top), and the mirrored view flips X about the board's
// vertical centreline.
type View struct {
	Extent Extent
	Mirror bool
}

// Apply maps a board point.
func (v View) Apply(p vec.Vec2) vec.Vec2 {
	if v.Mirror {
		return vec.Vec2{X: v.Extent.MaxX - p.X, Y: p.Y - v.Extent.MinY}
	}
	return vec.Vec2{X: p.X - v.Extent.MinX, Y: p.Y - v.Extent.MinY}
}

// Angle maps a counter-clockwise rotation in degrees.
func (v View) Angle(deg float64) float64 {
	if v.Mirror {
		return -deg
	}
	return deg
}

// toMM converts a board point to millimetres.
func toMM(p pcb.Point) vec.Vec2 {
	return vec.Vec2{X: p.X.MM(), Y: p.Y.MM()}
}

// rotate turns v counter-clockwise on screen by deg degrees (Y down), the
// direction KiCad uses for orientations.
func rotate(v vec.Vec2, deg float64) vec.Vec2 {
	x, y := sexp.Rotate(v.X, v.Y, deg)
	return vec.Vec2{X: x, Y: y}
}

// boardExtent converts the outline bounding box to millimetres.
func boardExtent(bb pcb.BoundingBox) Extent {
	return Extent{
		MinX: bb.Min.X.MM(), MinY: bb.Min.Y.MM(),
		MaxX: bb.Max.X.MM(), MaxY: bb.Max.Y.MM(),
	}
}
