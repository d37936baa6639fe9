package bom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
)

func fp(ref, value, name string, layer pcb.Layer) pcb.Footprint {
	return pcb.Footprint{Reference: ref, Value: value, Name: name, Layer: layer}
}

func layerPtr(l pcb.Layer) *pcb.Layer { return &l }

func TestNaturalSort(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "numeric runs", in: []string{"R10", "R2", "R1"}, want: []string{"R1", "R2", "R10"}},
		{name: "case insensitive", in: []string{"r3", "R1", "r2"}, want: []string{"R1", "r2", "r3"}},
		{name: "mixed prefixes", in: []string{"U1", "C12", "C2", "R1"}, want: []string{"C2", "C12", "R1", "U1"}},
		{name: "multiple numbers", in: []string{"Q1B10", "Q1B9", "Q1A"}, want: []string{"Q1A", "Q1B9", "Q1B10"}},
		{name: "leading digits", in: []string{"10", "9", "A1"}, want: []string{"9", "10", "A1"}},
		{name: "prefix shorter first", in: []string{"TP1", "TP"}, want: []string{"TP", "TP1"}},
		{name: "empty", in: []string{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]string{}, tt.in...)
			NaturalSort(got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NaturalSort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"R2", "R10", true},
		{"R10", "R2", false},
		{"R1", "r1", false},
		{"r1", "R1", false},
		{"R01", "R1", false},
		{"C1", "R1", true},
		{"R999999999999999999999", "R1000000000000000000000", true},
	}

	for _, tt := range tests {
		if got := NaturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("NaturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPrefixPriority(t *testing.T) {
	tests := map[string]int{
		"R1": 3, "C10": 3, "L2": 1, "D5": 1, "J1": -1, "P3": -1,
		"U1": 0, "r1": 0, "": 0,
	}
	for ref, want := range tests {
		if got := PrefixPriority(ref); got != want {
			t.Errorf("PrefixPriority(%q) = %d, want %d", ref, got, want)
		}
	}
}

func TestGenerateBOMGrouping(t *testing.T) {
	board := &pcb.Board{Footprints: []pcb.Footprint{
		fp("R2", "10k", "0402", pcb.LayerFront),
		fp("R1", "10k", "0402", pcb.LayerFront),
		fp("R3", "10k", "0603", pcb.LayerFront),
	}}

	got := GenerateBOM(board, nil)
	want := []Row{
		{Quantity: 2, Value: "10k", Footprint: "0402", References: []string{"R1", "R2"}},
		{Quantity: 1, Value: "10k", Footprint: "0603", References: []string{"R3"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateBOM() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateBOMDropsBlankValues(t *testing.T) {
	board := &pcb.Board{Footprints: []pcb.Footprint{
		fp("H1", "", "MountingHole", pcb.LayerFront),
		fp("H2", " ", "MountingHole", pcb.LayerFront),
		fp("H3", "\t", "MountingHole", pcb.LayerFront),
		fp("R1", "1k", "0402", pcb.LayerFront),
	}}

	rows := GenerateBOM(board, nil)
	if len(rows) != 1 {
		t.Fatalf("GenerateBOM() returned %d rows, want 1", len(rows))
	}
	for _, r := range rows {
		for _, ref := range r.References {
			if strings.HasPrefix(ref, "H") {
				t.Errorf("blank-valued %s appears in %v", ref, r)
			}
		}
	}
}

func TestGenerateBOMOrdering(t *testing.T) {
	board := &pcb.Board{Footprints: []pcb.Footprint{
		fp("J1", "Conn", "PinHeader", pcb.LayerFront),
		fp("U1", "MCU", "QFN32", pcb.LayerFront),
		fp("D1", "LED", "0603", pcb.LayerFront),
		fp("C1", "100nF", "0402", pcb.LayerFront),
		fp("R1", "1k", "0402", pcb.LayerFront),
		fp("C2", "100nF", "0402", pcb.LayerFront),
	}}

	var got []string
	for _, r := range GenerateBOM(board, nil) {
		got = append(got, r.References[0])
	}
	// C (prio 3, qty 2), R (prio 3, qty 1), D (1), U (0), J (-1)
	want := []string{"C1", "R1", "D1", "U1", "J1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateBOMRBeforeJ(t *testing.T) {
	board := &pcb.Board{Footprints: []pcb.Footprint{
		fp("J1", "Conn", "PinHeader", pcb.LayerFront),
		fp("R1", "1k", "0402", pcb.LayerFront),
	}}

	rows := GenerateBOM(board, nil)
	if len(rows) != 2 || rows[0].References[0] != "R1" || rows[1].References[0] != "J1" {
		t.Errorf("GenerateBOM() = %v, want R row before J row", rows)
	}
}

func TestGenerateBOMLayerFilter(t *testing.T) {
	board := &pcb.Board{Footprints: []pcb.Footprint{
		fp("R1", "10k", "0402", pcb.LayerFront),
		fp("R2", "10k", "0402", pcb.LayerBack),
		fp("R3", "10k", "0402", pcb.LayerFront),
	}}

	front := GenerateBOM(board, layerPtr(pcb.LayerFront))
	back := GenerateBOM(board, layerPtr(pcb.LayerBack))
	all := GenerateBOM(board, nil)

	if diff := cmp.Diff([]string{"R1", "R3"}, front[0].References); diff != "" {
		t.Errorf("front refs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"R2"}, back[0].References); diff != "" {
		t.Errorf("back refs mismatch (-want +got):\n%s", diff)
	}
	if all[0].Quantity != 3 {
		t.Errorf("unfiltered quantity = %d, want 3", all[0].Quantity)
	}
}

func TestGenerateBOMIdempotent(t *testing.T) {
	board := &pcb.Board{Footprints: []pcb.Footprint{
		fp("R10", "10k", "0402", pcb.LayerFront),
		fp("C1", "1u", "0603", pcb.LayerFront),
		fp("R2", "10k", "0402", pcb.LayerFront),
		fp("J1", "Conn", "PinHeader", pcb.LayerFront),
	}}

	first := GenerateBOM(board, nil)
	second := GenerateBOM(board, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("GenerateBOM() not idempotent (-first +second):\n%s", diff)
	}
}

func TestGenerateBOMEmptyBoard(t *testing.T) {
	rows := GenerateBOM(&pcb.Board{}, nil)
	if len(rows) != 0 {
		t.Errorf("GenerateBOM(empty) = %v, want no rows", rows)
	}
}

func TestGenerateBOMScenario(t *testing.T) {
	board := &pcb.Board{Footprints: []pcb.Footprint{
		fp("R1", "10k", "0402", pcb.LayerFront),
		fp("C1", "100nF", "0603", pcb.LayerFront),
		fp("R2", "10k", "0402", pcb.LayerFront),
	}}

	got := GenerateBOM(board, layerPtr(pcb.LayerFront))
	want := []Row{
		{Quantity: 2, Value: "10k", Footprint: "0402", References: []string{"R1", "R2"}},
		{Quantity: 1, Value: "100nF", Footprint: "0603", References: []string{"C1"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateBOM() mismatch (-want +got):\n%s", diff)
	}
	if got[0].String() != "2x 10k, 0402" {
		t.Errorf("Row.String() = %q", got[0].String())
	}
	if got[0].RefList() != "R1, R2" {
		t.Errorf("Row.RefList() = %q", got[0].RefList())
	}
}

func TestTable(t *testing.T) {
	rows := []Row{
		{Quantity: 2, Value: "10k", Footprint: "R_0402", References: []string{"R1", "R2"}},
		{Quantity: 1, Value: "100nF", Footprint: "C_0603", References: []string{"C1"}},
	}

	var buf bytes.Buffer
	if err := Table(&buf, "Top", rows); err != nil {
		t.Fatalf("Table() unexpected error: %v", err)
	}

	want := "Top (2 rows)\n" +
		"   Qty  Value  Footprint  References\n" +
		"     2  10k    R_0402     R1, R2\n" +
		"     1  100nF  C_0603     C1\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Table() mismatch (-want +got):\n%s", diff)
	}
}
