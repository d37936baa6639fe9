package pcb

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported file version (KiCad 5.0 = 20171130)
const MinSupportedVersion = 20171130

// ErrNotABoard is returned when the root node is not (kicad_pcb ...).
var ErrNotABoard = errors.New("not a KiCad PCB file")

// LoadError reports a board that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load board: %v", e.Err)
	}
	return fmt.Sprintf("failed to load board %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseFile reads and parses a KiCad board file
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer file.Close()

	board, err := Parse(file)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = filename
			return nil, le
		}
		return nil, &LoadError{Path: filename, Err: err}
	}
	return board, nil
}

// Parse reads and parses a KiCad board from an io.Reader
func Parse(r io.Reader) (*Board, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("failed to parse s-expression: %w", err)}
	}

	if len(sexps) == 0 {
		return nil, &LoadError{Err: fmt.Errorf("empty file or no valid s-expressions found")}
	}

	board, err := parseBoard(sexps[0])
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return board, nil
}

func parseBoard(root kicadsexp.Sexp) (*Board, error) {
	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if root.IsLeaf() || rootName != "kicad_pcb" {
		return nil, fmt.Errorf("%w: expected 'kicad_pcb', got '%s'", ErrNotABoard, rootName)
	}

	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	board := &Board{
		Version:   version,
		Generator: generator,
	}

	if layersNode, found := sexp.FindNode(root, "layers"); found {
		layers, err := parseLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layers section: %w", err)
		}
		board.Layers = layers
	}

	drawings, err := parseDrawings(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drawings: %w", err)
	}
	board.Drawings = drawings

	footprints, err := parseFootprints(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprints: %w", err)
	}
	board.Footprints = footprints

	return board, nil
}

// parseHeader extracts version and generator information from the root node
// Expected format: (kicad_pcb (version 20221018) (generator pcbnew) ...)
func parseHeader(root kicadsexp.Sexp) (version int, generator string, err error) {
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}

	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 5.0)", ver, MinSupportedVersion)
	}

	// Generator/host node is optional in some files
	gen := "unknown"
	if host, ok := sexp.ChildString(root, "host"); ok {
		// Format: (host pcbnew "(6.0.0)")
		gen = host
	} else if name, ok := sexp.ChildString(root, "generator"); ok {
		gen = name
	}

	return ver, gen, nil
}

// parseLayers extracts layer definitions
// Expected format: (layers (0 "F.Cu" signal) (31 "B.Cu" signal) ...)
func parseLayers(node kicadsexp.Sexp) ([]LayerDef, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected (layers ...) list")
	}

	layerNodes := sexp.GetListItems(node)
	if len(layerNodes) == 0 {
		return nil, fmt.Errorf("no layers defined")
	}

	var layers []LayerDef
	for _, layerNode := range layerNodes {
		if layerNode.IsLeaf() {
			continue
		}

		// Parse individual layer: (number "name" type ["user name"])
		number, err := sexp.GetInt(layerNode, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer number: %w", err)
		}

		name, err := sexp.GetString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer name: %w", err)
		}

		layerType, err := sexp.GetString(layerNode, 2)
		if err != nil {
			layerType = "user"
		}

		layers = append(layers, LayerDef{
			Number: number,
			Name:   name,
			Type:   layerType,
		})
	}

	return layers, nil
}
