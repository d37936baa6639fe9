// Package assembly lays out pick-and-place assistance pages: the board
// outline, every footprint on one side, and one BOM group highlighted.
package assembly

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"seehuhn.de/go/geom/vec"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
)

var (
	// ErrNoBoardOutline is returned for boards without Edge.Cuts segments.
	ErrNoBoardOutline = errors.New("board has no Edge.Cuts outline")

	// ErrNoPads is returned when a highlighted footprint has no pads.
	ErrNoPads = errors.New("highlighted footprint has no pads")
)

// RenderPage draws row on the given assembly side.
func RenderPage(board *pcb.Board, row bom.Row, side Side, cfg Config) (*Page, PadCounts, error) {
	return RenderPageOn(board, row, side.Layer(), side.Mirror(), cfg)
}

// RenderPageOn draws row using the footprints on layer, optionally mirrored.
// The returned counts cover the highlighted pads of this page only;
// mirrored pages count as bottom side.
func RenderPageOn(board *pcb.Board, row bom.Row, layer pcb.Layer, mirror bool, cfg Config) (*Page, PadCounts, error) {
	var counts PadCounts
	log := cfg.logger()

	edges := board.EdgeSegments()
	if len(edges) == 0 {
		return nil, counts, ErrNoBoardOutline
	}

	extent := boardExtent(board.GetBoundingBox())
	view := View{Extent: extent, Mirror: mirror}

	page := &Page{
		Layer:  layer,
		Mirror: mirror,
		Extent: extent,
		View:   view,
		Title:  row.String(),
		Refs:   row.RefList(),
	}

	for _, seg := range edges {
		page.Shapes = append(page.Shapes, Shape{
			Kind:      ShapeLine,
			Z:         ZOutline,
			Points:    []vec.Vec2{view.Apply(toMM(seg.Start)), view.Apply(toMM(seg.End))},
			Stroke:    cfg.EdgeColor,
			LineWidth: cfg.EdgeLineWidth,
		})
	}

	midX := extent.MinX + extent.Width()/2
	page.Shapes = append(page.Shapes,
		Shape{
			Kind:   ShapeText,
			Z:      ZText,
			Center: view.Apply(vec.Vec2{X: midX, Y: extent.MinY - cfg.TextGap}),
			Text:   page.Title,
			Align:  AlignBottom,
			Fill:   cfg.TextColor,
		},
		Shape{
			Kind:   ShapeText,
			Z:      ZText,
			Center: view.Apply(vec.Vec2{X: midX, Y: extent.MaxY + cfg.TextGap}),
			Text:   page.Refs,
			Align:  AlignTop,
			Fill:   cfg.TextColor,
		},
	)

	highlighted := make(map[string]bool, len(row.References))
	for _, ref := range row.References {
		highlighted[ref] = true
	}

	for _, fp := range board.FootprintsOn(layer) {
		highlight := highlighted[fp.Reference]

		page.Shapes = append(page.Shapes, footprintBox(fp, highlight, view, &cfg))

		if len(fp.Pads) == 0 {
			if highlight {
				if !cfg.AllowPadless {
					return nil, counts, fmt.Errorf("%w: %s", ErrNoPads, fp.Reference)
				}
				log.Warn("highlighted footprint has no pads", zap.String("ref", fp.Reference))
			}
			continue
		}

		for i := range fp.Pads {
			pad := &fp.Pads[i]
			if highlight {
				counts.count(pad.Mount, mirror)
			}

			shape, ok := padShape(pad, highlight, view, &cfg)
			if !ok {
				log.Warn("unsupported pad shape, skipping pad",
					zap.String("ref", fp.Reference),
					zap.String("pad", pad.Number),
					zap.String("shape", pad.ShapeName))
				continue
			}
			shape.Ref = fp.Reference
			page.Shapes = append(page.Shapes, shape)
		}
	}

	slices.SortStableFunc(page.Shapes, func(a, b Shape) int { return a.Z - b.Z })

	log.Debug("rendered page",
		zap.String("title", page.Title),
		zap.Stringer("layer", layer),
		zap.Bool("mirror", mirror),
		zap.Int("shapes", len(page.Shapes)))

	return page, counts, nil
}

func footprintBox(fp *pcb.Footprint, highlight bool, view View, cfg *Config) Shape {
	lo := toMM(fp.Rect.Position)
	hi := toMM(fp.Rect.Max())

	box := Shape{
		Kind: ShapePolygon,
		Z:    ZBox,
		Points: []vec.Vec2{
			view.Apply(lo),
			view.Apply(vec.Vec2{X: hi.X, Y: lo.Y}),
			view.Apply(hi),
			view.Apply(vec.Vec2{X: lo.X, Y: hi.Y}),
		},
		Fill:      cfg.BoxColor,
		Ref:       fp.Reference,
		Highlight: highlight,
	}
	if highlight {
		box.Fill = cfg.BoxHighlightColor
		box.Stroke = cfg.BoxHighlightStroke
		box.LineWidth = cfg.BoxHighlightLineWidth
	}
	return box
}

// padShape converts a pad to a scene shape. It reports false for shapes
// that cannot be drawn.
func padShape(pad *pcb.Pad, highlight bool, view View, cfg *Config) (Shape, bool) {
	pos := toMM(pad.Position)
	w, h := pad.Size.MM()
	size := vec.Vec2{X: w, Y: h}.Mul(cfg.PadScale)
	angle := pad.Orientation.Degrees()

	s := Shape{
		Z:         ZPad,
		Fill:      cfg.PadColor,
		Highlight: highlight,
	}
	if highlight {
		s.Z = ZPadHighlight
		s.Fill = cfg.PadHighlightColor
	}

	switch pad.Shape {
	case pcb.PadShapeRect, pcb.PadShapeRoundRect:
		half := size.Mul(0.5)
		corners := [4]vec.Vec2{
			{X: -half.X, Y: -half.Y},
			{X: half.X, Y: -half.Y},
			{X: half.X, Y: half.Y},
			{X: -half.X, Y: half.Y},
		}
		s.Kind = ShapePolygon
		s.Points = make([]vec.Vec2, 0, len(corners))
		for _, c := range corners {
			s.Points = append(s.Points, view.Apply(pos.Add(rotate(c, angle))))
		}
	case pcb.PadShapeCircle, pcb.PadShapeOval:
		s.Kind = ShapeEllipse
		s.Center = view.Apply(pos)
		s.RX, s.RY = size.X/2, size.Y/2
		s.Angle = view.Angle(angle)
	case pcb.PadShapeUnsupported:
		return Shape{}, false
	default:
		return Shape{}, false
	}
	return s, true
}
