package assembly

import (
	"image/color"

	"seehuhn.de/go/geom/vec"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
)

// ShapeKind selects which fields of a Shape are meaningful.
type ShapeKind int

const (
	ShapeLine    ShapeKind = iota // Points[0] to Points[1]
	ShapePolygon                  // closed, Points
	ShapeEllipse                  // Center, RX, RY, Angle
	ShapeText                     // Text at Center
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeLine:
		return "line"
	case ShapePolygon:
		return "polygon"
	case ShapeEllipse:
		return "ellipse"
	case ShapeText:
		return "text"
	}
	return "unknown"
}

// TextAlign places text relative to its anchor point.
type TextAlign int

const (
	AlignBottom TextAlign = iota // text sits above the anchor
	AlignTop                     // text hangs below the anchor
)

// Drawing order. Shapes with a lower Z are painted first.
const (
	ZBox          = -1
	ZPad          = 1
	ZPadHighlight = 2
	ZOutline      = 3 // edges are painted over pads
	ZText         = 4
)

// Shape is one element of a page scene, in page-local millimetres.
type Shape struct {
	Kind ShapeKind
	Z    int

	Points []vec.Vec2

	Center vec.Vec2
	RX, RY float64
	Angle  float64 // degrees, counter-clockwise

	Text  string
	Align TextAlign

	Fill      color.Color
	Stroke    color.Color
	LineWidth float64 // points

	Ref       string // owning footprint, empty for board-level shapes
	Highlight bool
}

// Visible reports whether drawing the shape would paint anything.
func (s *Shape) Visible() bool {
	if s.Kind == ShapeText {
		return s.Text != ""
	}
	return s.Fill != nil || (s.Stroke != nil && s.LineWidth > 0)
}

// Page is the backend-independent scene of one assembly page.
type Page struct {
	Layer  pcb.Layer
	Mirror bool

	Extent Extent
	View   View

	Title string
	Refs  string

	Shapes []Shape // sorted by Z, stable
}

// Width and Height return the size of the board area in millimetres.
func (p *Page) Width() float64  { return p.Extent.Width() }
func (p *Page) Height() float64 { return p.Extent.Height() }

// ShapesOf returns the shapes drawn for the footprint with the given reference.
func (p *Page) ShapesOf(ref string) []Shape {
	var out []Shape
	for _, s := range p.Shapes {
		if s.Ref == ref {
			out = append(out, s)
		}
	}
	return out
}
