// Package bom groups the placed components of a board into a bill of
// materials, one row per distinct (value, footprint) pair.
package bom

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
)

// Row is one BOM line: all components sharing a value and footprint.
type Row struct {
	Quantity   int
	Value      string
	Footprint  string
	References []string // natural order
}

// String returns the page title for the row, e.g. "2x 10k, R_0402".
func (r Row) String() string {
	return fmt.Sprintf("%dx %s, %s", r.Quantity, r.Value, r.Footprint)
}

// RefList joins the references for display.
func (r Row) RefList() string {
	return strings.Join(r.References, ", ")
}

// Reference prefix ranking. Passives go first, connectors last.
var prefixPriority = map[rune]int{
	'R': 3,
	'C': 3,
	'L': 1,
	'D': 1,
	'J': -1,
	'P': -1,
}

// PrefixPriority returns the page-order rank of a reference designator,
// based on its first character. Higher ranks are placed first.
func PrefixPriority(ref string) int {
	r, _ := utf8.DecodeRuneInString(ref)
	return prefixPriority[r]
}

type groupKey struct {
	value     string
	footprint string
}

// GenerateBOM groups the footprints of board by (value, footprint name).
// When filter is non-nil only footprints on that layer are considered.
// Rows with a blank value are dropped. Rows are ordered by reference
// prefix priority, then by quantity, both descending; ties keep the order
// in which groups were first seen.
func GenerateBOM(board *pcb.Board, filter *pcb.Layer) []Row {
	layer := pcb.AnyLayer
	if filter != nil {
		layer = *filter
	}

	var order []groupKey
	groups := make(map[groupKey][]string)
	for _, fp := range board.FootprintsOn(layer) {
		key := groupKey{value: fp.Value, footprint: fp.Name}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], fp.Reference)
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		if strings.TrimSpace(key.value) == "" {
			continue
		}
		refs := groups[key]
		NaturalSort(refs)
		rows = append(rows, Row{
			Quantity:   len(refs),
			Value:      key.value,
			Footprint:  key.footprint,
			References: refs,
		})
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		if pa, pb := PrefixPriority(a.References[0]), PrefixPriority(b.References[0]); pa != pb {
			return pb - pa
		}
		return b.Quantity - a.Quantity
	})

	return rows
}
