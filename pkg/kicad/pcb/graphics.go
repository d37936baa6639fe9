package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp/kicadsexp"
)

// parseDrawings flattens the board-level drawings into straight segments.
// Circles and text carry no outline segments and are ignored.
func parseDrawings(root kicadsexp.Sexp) ([]Segment, error) {
	var segs []Segment

	for _, item := range sexp.SexpToSlice(root) {
		if item == nil || item.IsLeaf() {
			continue
		}
		name, err := sexp.GetNodeName(item)
		if err != nil {
			continue
		}

		var pts []Point
		switch name {
		case "gr_line":
			pts, err = parseLinePoints(item)
		case "gr_rect":
			pts, err = parseRectPoints(item)
		case "gr_poly":
			pts, err = parsePolyPoints(item)
		case "gr_arc":
			pts, err = parseArcPoints(item)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		layer, ok := sexp.ChildString(item, "layer")
		if !ok {
			return nil, fmt.Errorf("%s: missing required 'layer' field", name)
		}

		segs = append(segs, chain(Layer(layer), pts, name == "gr_rect" || name == "gr_poly")...)
	}

	return segs, nil
}

// chain joins consecutive points into segments, closing the loop if asked.
func chain(layer Layer, pts []Point, closed bool) []Segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		segs = append(segs, Segment{Layer: layer, Start: pts[i-1], End: pts[i]})
	}
	if closed && len(pts) > 2 {
		segs = append(segs, Segment{Layer: layer, Start: pts[len(pts)-1], End: pts[0]})
	}
	return segs
}

// parseLinePoints reads (gr_line (start x y) (end x y) ...)
func parseLinePoints(node kicadsexp.Sexp) ([]Point, error) {
	start, err := sexp.ChildPoint(node, "start")
	if err != nil {
		return nil, err
	}
	end, err := sexp.ChildPoint(node, "end")
	if err != nil {
		return nil, err
	}
	return []Point{start, end}, nil
}

// parseRectPoints reads (gr_rect (start x y) (end x y) ...) and returns the
// four corners in drawing order.
func parseRectPoints(node kicadsexp.Sexp) ([]Point, error) {
	start, err := sexp.ChildPoint(node, "start")
	if err != nil {
		return nil, err
	}
	end, err := sexp.ChildPoint(node, "end")
	if err != nil {
		return nil, err
	}
	return []Point{
		start,
		{X: end.X, Y: start.Y},
		end,
		{X: start.X, Y: end.Y},
	}, nil
}

// parsePolyPoints reads (gr_poly (pts (xy x y) ... [(arc (start) (mid) (end))]) ...)
func parsePolyPoints(node kicadsexp.Sexp) ([]Point, error) {
	ptsNode, found := sexp.FindNode(node, "pts")
	if !found || ptsNode.IsLeaf() {
		return nil, fmt.Errorf("missing required 'pts' field")
	}

	var pts []Point
	for _, item := range sexp.GetListItems(ptsNode) {
		if item.IsLeaf() {
			continue
		}
		name, _ := sexp.GetNodeName(item)
		switch name {
		case "xy":
			p, err := sexp.GetPoint(item)
			if err != nil {
				return nil, fmt.Errorf("failed to parse polygon vertex: %w", err)
			}
			pts = append(pts, p)
		case "arc":
			arc, err := parseArcPoints(item)
			if err != nil {
				return nil, fmt.Errorf("failed to parse polygon arc: %w", err)
			}
			pts = append(pts, arc...)
		}
	}
	return pts, nil
}

// parseArcPoints returns start, mid and end of an arc.
//
// KiCad 6+ writes (start) (mid) (end) on the arc itself. Older files write
// (start center) (end arcStart) (angle degrees); the missing points are
// derived by rotating about the centre.
func parseArcPoints(node kicadsexp.Sexp) ([]Point, error) {
	start, err := sexp.ChildPoint(node, "start")
	if err != nil {
		return nil, err
	}
	end, err := sexp.ChildPoint(node, "end")
	if err != nil {
		return nil, err
	}

	if _, found := sexp.FindNode(node, "mid"); found {
		mid, err := sexp.ChildPoint(node, "mid")
		if err != nil {
			return nil, err
		}
		return []Point{start, mid, end}, nil
	}

	angleNode, found := sexp.FindNode(node, "angle")
	if !found {
		return nil, fmt.Errorf("arc has neither 'mid' nor 'angle'")
	}
	deg, err := sexp.GetFloat(angleNode, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arc angle: %w", err)
	}

	center, first := start, end
	return []Point{
		first,
		// legacy arc angles run clockwise on screen
		first.RotateAbout(center, -deg/2),
		first.RotateAbout(center, -deg),
	}, nil
}
