package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode searches for a child node with the given key (first symbol)
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range SexpToSlice(s) {
		if item == nil {
			continue
		}

		if item.IsLeaf() {
			if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == key {
				return item, true
			}
			continue
		}

		if name, err := GetNodeName(item); err == nil && name == key {
			return item, true
		}
	}

	return nil, false
}

// FindAllNodes finds all child lists with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp

	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}

	return results
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return []kicadsexp.Sexp{}
	}
	return items[1:]
}

// SexpToSlice converts an s-expression list to a Go slice
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}

	if l, ok := s.(*kicadsexp.List); ok {
		return l.Elements()
	}

	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		items = append(items, s.Head())
		s = s.Tail()
	}
	return items
}

// Typed value extraction helpers

// GetString extracts a string value at the given index in a list
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := SexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if sym, ok := items[index].(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// HasSymbol checks if a list contains a specific symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}
	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}

	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}

// Domain-specific extraction helpers

// GetPoint extracts a point from a (keyword X Y ...) node.
// X and Y are millimetres in the file and converted to board units.
func GetPoint(s kicadsexp.Sexp) (Point, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := GetFloat(s, 2)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return Pt(x, y), nil
}

// GetAt extracts position and orientation from an (at X Y [angle]) node.
// The angle is optional and given in degrees.
func GetAt(s kicadsexp.Sexp) (Point, Decidegrees, error) {
	key, err := GetString(s, 0)
	if err != nil {
		return Point{}, 0, err
	}
	if key != "at" {
		return Point{}, 0, fmt.Errorf("expected 'at', got %q", key)
	}

	pos, err := GetPoint(s)
	if err != nil {
		return Point{}, 0, err
	}

	var angle Decidegrees
	if deg, err := GetFloat(s, 3); err == nil {
		angle = FromDegrees(deg)
	}

	return pos, angle, nil
}

// GetSize extracts a (size W H) node.
func GetSize(s kicadsexp.Sexp) (Size, error) {
	w, err := GetFloat(s, 1)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse width: %w", err)
	}
	h, err := GetFloat(s, 2)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse height: %w", err)
	}
	return Size{Width: FromMM(w), Height: FromMM(h)}, nil
}

// ChildPoint finds (key X Y) below s and returns its point.
func ChildPoint(s kicadsexp.Sexp, key string) (Point, error) {
	node, found := FindNode(s, key)
	if !found || node.IsLeaf() {
		return Point{}, fmt.Errorf("missing required '%s' position", key)
	}
	p, err := GetPoint(node)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse %s position: %w", key, err)
	}
	return p, nil
}

// ChildString finds (key value) below s and returns value.
func ChildString(s kicadsexp.Sexp, key string) (string, bool) {
	node, found := FindNode(s, key)
	if !found || node.IsLeaf() {
		return "", false
	}
	v, err := GetString(node, 1)
	if err != nil {
		return "", false
	}
	return v, true
}
