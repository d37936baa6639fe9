package pcb

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp/kicadsexp"
)

// GetBoundingBox calculates the extent of the board outline (Edge.Cuts).
func (b *Board) GetBoundingBox() BoundingBox {
	var bbox BoundingBox
	for _, seg := range b.EdgeSegments() {
		bbox.Expand(seg.Start)
		bbox.Expand(seg.End)
	}
	return bbox
}

// TransformPosition maps a footprint-local position to board coordinates.
// Positive orientation is counter-clockwise as seen on screen, with Y down.
func (fp *Footprint) TransformPosition(local Point) Point {
	return local.RotateAbout(Point{}, fp.Orientation.Degrees()).Add(fp.Position)
}

// PadCorners returns the four corners of the pad rectangle, rotated by the
// pad orientation, scaled by scale about the pad position.
func (p *Pad) PadCorners(scale float64) [4]Point {
	hw := float64(p.Size.Width) * scale / 2
	hh := float64(p.Size.Height) * scale / 2
	deg := p.Orientation.Degrees()

	var corners [4]Point
	for i, c := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		x, y := sexp.Rotate(c[0], c[1], deg)
		corners[i] = Point{
			X: p.Position.X + Coord(math.Round(x)),
			Y: p.Position.Y + Coord(math.Round(y)),
		}
	}
	return corners
}

// footprintBounds computes the board-aligned extent of a footprint from its
// pads and its outline graphics. Text is not included.
func footprintBounds(node kicadsexp.Sexp, fp *Footprint) (BoundingBox, error) {
	var bbox BoundingBox

	for i := range fp.Pads {
		for _, c := range fp.Pads[i].PadCorners(1) {
			bbox.Expand(c)
		}
	}

	for _, item := range sexp.SexpToSlice(node) {
		if item == nil || item.IsLeaf() {
			continue
		}
		name, err := sexp.GetNodeName(item)
		if err != nil {
			continue
		}

		var local []Point
		switch name {
		case "fp_line":
			local, err = parseLinePoints(item)
		case "fp_rect":
			local, err = parseRectPoints(item)
		case "fp_poly":
			local, err = parsePolyPoints(item)
		case "fp_arc":
			local, err = parseArcPoints(item)
		case "fp_circle":
			var center Point
			var r Coord
			center, r, err = parseCircle(item)
			if err == nil {
				c := fp.TransformPosition(center)
				bbox.Expand(Point{X: c.X - r, Y: c.Y - r})
				bbox.Expand(Point{X: c.X + r, Y: c.Y + r})
				continue
			}
		default:
			continue
		}
		if err != nil {
			return bbox, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		for _, p := range local {
			bbox.Expand(fp.TransformPosition(p))
		}
	}

	return bbox, nil
}

// parseCircle reads (fp_circle (center x y) (end x y)).
func parseCircle(node kicadsexp.Sexp) (Point, Coord, error) {
	center, err := sexp.ChildPoint(node, "center")
	if err != nil {
		return Point{}, 0, err
	}
	end, err := sexp.ChildPoint(node, "end")
	if err != nil {
		return Point{}, 0, err
	}

	r := Coord(math.Round(math.Hypot(float64(end.X-center.X), float64(end.Y-center.Y))))
	return center, r, nil
}
