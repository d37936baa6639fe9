package pcb

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp/kicadsexp"
)

// parsePad extracts a pad definition from a footprint and places it on the board.
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) ...)
func parsePad(node kicadsexp.Sexp, fp *Footprint) (*Pad, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected pad list, got leaf")
	}

	pad := &Pad{}

	// Pad number may be an empty string (mechanical pads)
	number, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	// thru_hole, smd, connect, np_thru_hole
	padType, err := sexp.GetString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Mount = ParseMountType(padType)

	// circle, rect, oval, roundrect, trapezoid, custom
	shape, err := sexp.GetString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.ShapeName = shape
	pad.Shape = ParsePadShape(shape)

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	local, angle, err := sexp.GetAt(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad position: %w", err)
	}
	// x/y are relative to the footprint anchor; the angle is already absolute
	pad.Position = fp.TransformPosition(local)
	pad.Orientation = angle

	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	pad.Size, err = sexp.GetSize(sizeNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad size: %w", err)
	}

	// Drill can be (drill d), (drill oval w h) and may carry (offset x y)
	if drillNode, found := sexp.FindNode(node, "drill"); found && !drillNode.IsLeaf() {
		idx := 1
		if sexp.HasSymbol(drillNode, "oval") {
			idx = 2
		}
		if d, err := sexp.GetFloat(drillNode, idx); err == nil {
			pad.Drill = sexp.FromMM(d)
		}
		if _, found := sexp.FindNode(drillNode, "offset"); found {
			pad.Offset, err = sexp.ChildPoint(drillNode, "offset")
			if err != nil {
				return nil, fmt.Errorf("failed to parse drill offset: %w", err)
			}
		}
	}

	if layersNode, found := sexp.FindNode(node, "layers"); found && !layersNode.IsLeaf() {
		for _, item := range sexp.GetListItems(layersNode) {
			if item.IsLeaf() && item.String() != "" {
				pad.Layers = append(pad.Layers, item.String())
			}
		}
	}

	return pad, nil
}

// parseFootprint extracts a placed component.
// Expected format: (footprint "library:name" (layer "F.Cu") (at x y [angle]) ...)
// KiCad 5 files use (module ...) with the same body.
func parseFootprint(node kicadsexp.Sexp) (*Footprint, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected footprint list, got leaf")
	}

	footprint := &Footprint{}

	fpName, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	// Example: "Resistor_SMD:R_0603_1608Metric"
	if lib, name, ok := strings.Cut(fpName, ":"); ok && lib != "" {
		footprint.Library = lib
		footprint.Name = name
	} else {
		footprint.Name = fpName
	}

	layer, ok := sexp.ChildString(node, "layer")
	if !ok {
		return nil, fmt.Errorf("footprint %s: missing required 'layer' field", fpName)
	}
	footprint.Layer = Layer(layer)

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("footprint %s: missing required 'at' position", fpName)
	}
	footprint.Position, footprint.Orientation, err = sexp.GetAt(atNode)
	if err != nil {
		return nil, fmt.Errorf("footprint %s: %w", fpName, err)
	}

	parseFields(node, footprint)

	for _, padNode := range sexp.FindAllNodes(node, "pad") {
		pad, err := parsePad(padNode, footprint)
		if err != nil {
			return nil, fmt.Errorf("footprint %s: pad: %w", footprint.Reference, err)
		}
		footprint.Pads = append(footprint.Pads, *pad)
	}

	bbox, err := footprintBounds(node, footprint)
	if err != nil {
		return nil, fmt.Errorf("footprint %s: %w", footprint.Reference, err)
	}
	if bbox.IsEmpty() {
		bbox.Expand(footprint.Position)
	}
	footprint.Rect = bbox.Rect()
	footprint.Center = footprint.Rect.Center()

	return footprint, nil
}

// parseFields reads the reference designator and value.
// KiCad 8 uses (property "Reference" "R1"); earlier versions use
// (fp_text reference "R1"). Properties win when both are present.
func parseFields(node kicadsexp.Sexp, footprint *Footprint) {
	var haveRef, haveValue bool

	for _, propNode := range sexp.FindAllNodes(node, "property") {
		propName, err := sexp.GetString(propNode, 1)
		if err != nil {
			continue
		}
		propValue, err := sexp.GetString(propNode, 2)
		if err != nil {
			continue
		}

		switch propName {
		case "Reference":
			footprint.Reference, haveRef = propValue, true
		case "Value":
			footprint.Value, haveValue = propValue, true
		}
	}

	for _, textNode := range sexp.FindAllNodes(node, "fp_text") {
		kind, err := sexp.GetString(textNode, 1)
		if err != nil {
			continue
		}
		text, err := sexp.GetString(textNode, 2)
		if err != nil {
			continue
		}

		switch {
		case kind == "reference" && !haveRef:
			footprint.Reference, haveRef = text, true
		case kind == "value" && !haveValue:
			footprint.Value, haveValue = text, true
		}
	}
}

// parseFootprints extracts all placed components from the root node, in
// file order. Any malformed footprint fails the whole board.
func parseFootprints(root kicadsexp.Sexp) ([]Footprint, error) {
	if root.IsLeaf() {
		return nil, fmt.Errorf("expected root list")
	}

	var footprints []Footprint

	for _, item := range sexp.SexpToSlice(root) {
		if item == nil || item.IsLeaf() {
			continue
		}
		name, err := sexp.GetNodeName(item)
		if err != nil || (name != "footprint" && name != "module") {
			continue
		}

		footprint, err := parseFootprint(item)
		if err != nil {
			return nil, err
		}
		footprints = append(footprints, *footprint)
	}

	return footprints, nil
}
