package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp"
)

// Shared types (aliases to sexp package)
type Coord = sexp.Coord
type Point = sexp.Point
type Size = sexp.Size
type Rect = sexp.Rect
type Decidegrees = sexp.Decidegrees
type BoundingBox = sexp.BoundingBox

// Layer is a KiCad layer name such as "F.Cu" or "Edge.Cuts".
type Layer string

// Layers the assembly tooling cares about.
const (
	// AnyLayer disables layer filtering where a filter is accepted.
	AnyLayer Layer = ""

	LayerFront    Layer = "F.Cu"
	LayerBack     Layer = "B.Cu"
	LayerEdgeCuts Layer = "Edge.Cuts"
)

func (l Layer) String() string {
	if l == AnyLayer {
		return "*"
	}
	return string(l)
}

// LayerDef is an entry of the board's layer table
type LayerDef struct {
	Number int    // Layer number (ordinal)
	Name   string // Layer name (e.g., "F.Cu", "B.Cu", "F.SilkS")
	Type   string // Layer type (e.g., "signal", "user")
}

// PadShape is the outline of a pad.
type PadShape int

const (
	PadShapeUnsupported PadShape = iota
	PadShapeCircle
	PadShapeRect
	PadShapeOval
	PadShapeRoundRect
)

// ParsePadShape maps a file keyword to a PadShape.
// Unknown keywords map to PadShapeUnsupported.
func ParsePadShape(name string) PadShape {
	switch name {
	case "circle":
		return PadShapeCircle
	case "rect":
		return PadShapeRect
	case "oval":
		return PadShapeOval
	case "roundrect":
		return PadShapeRoundRect
	default:
		return PadShapeUnsupported
	}
}

func (s PadShape) String() string {
	switch s {
	case PadShapeCircle:
		return "circle"
	case PadShapeRect:
		return "rect"
	case PadShapeOval:
		return "oval"
	case PadShapeRoundRect:
		return "roundrect"
	case PadShapeUnsupported:
		return "unsupported"
	}
	return fmt.Sprintf("PadShape(%d)", int(s))
}

// MountType is the pad attribute (thru_hole, smd, ...).
type MountType int

const (
	MountUnknown MountType = iota
	MountThroughHole
	MountSMD
	MountConnector
	MountNPTH
)

// ParseMountType maps a file keyword to a MountType.
func ParseMountType(name string) MountType {
	switch name {
	case "thru_hole":
		return MountThroughHole
	case "smd":
		return MountSMD
	case "connect":
		return MountConnector
	case "np_thru_hole":
		return MountNPTH
	default:
		return MountUnknown
	}
}

func (m MountType) String() string {
	switch m {
	case MountThroughHole:
		return "thru_hole"
	case MountSMD:
		return "smd"
	case MountConnector:
		return "connect"
	case MountNPTH:
		return "np_thru_hole"
	case MountUnknown:
		return "unknown"
	}
	return fmt.Sprintf("MountType(%d)", int(m))
}
