package pcb

import "fmt"

// Board represents a KiCad PCB, reduced to what assembly documentation
// needs. It is not modified after loading.
type Board struct {
	Version    int         // File format version
	Generator  string      // Generator info (e.g., "pcbnew")
	Layers     []LayerDef  // Layer definitions
	Drawings   []Segment   // Board-level drawing segments on all layers
	Footprints []Footprint // Placed components
}

// Segment is a straight drawing segment on one layer.
type Segment struct {
	Layer Layer
	Start Point
	End   Point
}

// Footprint represents a placed component
type Footprint struct {
	Reference   string      // Reference designator (e.g., "R1")
	Value       string      // Component value, may be empty
	Library     string      // Library name
	Name        string      // Footprint name without library
	Layer       Layer       // Placement layer (F.Cu or B.Cu)
	Position    Point       // Anchor position
	Orientation Decidegrees // Footprint rotation
	Center      Point       // Centre of Rect
	Rect        Rect        // Axis-aligned bounding rectangle
	Pads        []Pad
}

// Pad represents a footprint pad in board coordinates
type Pad struct {
	Number      string      // Pad number/name
	Position    Point       // Absolute position
	Size        Size        // Unrotated pad size
	Shape       PadShape    // Outline
	ShapeName   string      // Shape keyword as found in the file
	Orientation Decidegrees // Absolute pad rotation
	Mount       MountType   // thru_hole, smd, ...
	Offset      Point       // Drill offset, relative to Position
	Drill       Coord       // Drill diameter (0 for SMD)
	Layers      []string    // Layers the pad appears on
}

func (fp *Footprint) String() string {
	return fmt.Sprintf("%s (%s, %s) on %s", fp.Reference, fp.Value, fp.Name, fp.Layer)
}

// SegmentsOn returns the drawing segments on the given layer, in file order.
func (b *Board) SegmentsOn(layer Layer) []Segment {
	var segs []Segment
	for _, seg := range b.Drawings {
		if seg.Layer == layer {
			segs = append(segs, seg)
		}
	}
	return segs
}

// EdgeSegments returns the board outline segments.
func (b *Board) EdgeSegments() []Segment {
	return b.SegmentsOn(LayerEdgeCuts)
}

// FootprintsOn returns the footprints placed on layer. AnyLayer returns all.
func (b *Board) FootprintsOn(layer Layer) []*Footprint {
	var fps []*Footprint
	for i := range b.Footprints {
		if layer == AnyLayer || b.Footprints[i].Layer == layer {
			fps = append(fps, &b.Footprints[i])
		}
	}
	return fps
}
