package document

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"golang.org/x/image/colornames"
	"seehuhn.de/go/geom/vec"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/assembly"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
)

func renderSimpleBoard(t *testing.T, cfg assembly.Config) []*assembly.Page {
	t.Helper()

	board, err := pcb.ParseFile(filepath.Join("..", "..", "testdata", "simple.kicad_pcb"))
	if err != nil {
		t.Fatalf("ParseFile() unexpected error: %v", err)
	}

	var pages []*assembly.Page
	for _, side := range []assembly.Side{assembly.SideTop, assembly.SideBottom} {
		layer := side.Layer()
		for _, row := range bom.GenerateBOM(board, &layer) {
			page, _, err := assembly.RenderPage(board, row, side, cfg)
			if err != nil {
				t.Fatalf("RenderPage() unexpected error: %v", err)
			}
			pages = append(pages, page)
		}
	}
	return pages
}

func TestWriteDocument(t *testing.T) {
	cfg := assembly.DefaultConfig()
	pages := renderSimpleBoard(t, cfg)

	w := New(cfg)
	for _, p := range pages {
		if err := w.AddPage(p); err != nil {
			t.Fatalf("AddPage() unexpected error: %v", err)
		}
	}
	if w.PageCount() != 4 {
		t.Errorf("PageCount() = %d, want 4", w.PageCount())
	}

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
	if got := bytes.Count(buf.Bytes(), []byte("/Type /Page\n")); got != 4 {
		t.Errorf("PDF contains %d page objects, want 4", got)
	}
}

// utf16BE is the string encoding fpdf uses for text in TrueType fonts.
func utf16BE(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.BigEndian.AppendUint16(out, u)
	}
	return out
}

func TestWriteNonLatinText(t *testing.T) {
	tests := []string{
		"2x 10kΩ, R_0402",
		"1x 1kΩ ±1%, R_0603",
		"1x 4.7µF, C_0805",
	}

	for _, title := range tests {
		t.Run(title, func(t *testing.T) {
			page := &assembly.Page{
				Extent: assembly.Extent{MaxX: 20, MaxY: 10},
				Shapes: []assembly.Shape{{
					Kind:   assembly.ShapeText,
					Z:      assembly.ZText,
					Center: vec.Vec2{X: 10, Y: -0.5},
					Text:   title,
					Align:  assembly.AlignBottom,
					Fill:   colornames.Black,
				}},
			}

			w := New(assembly.DefaultConfig())
			w.pdf.SetCompression(false)
			if err := w.AddPage(page); err != nil {
				t.Fatalf("AddPage() unexpected error: %v", err)
			}

			var buf bytes.Buffer
			if err := w.WriteTo(&buf); err != nil {
				t.Fatalf("WriteTo() unexpected error: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), utf16BE(title)) {
				t.Errorf("PDF does not contain %q as written text", title)
			}
		})
	}
}

func TestSaveEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty_assembly.pdf")

	w := New(assembly.DefaultConfig())
	if err := w.Save(path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	w := New(assembly.DefaultConfig())
	if err := w.Save(filepath.Join(t.TempDir(), "missing", "out.pdf")); err == nil {
		t.Error("Save() into a missing directory should fail")
	}
}

func TestLayoutFitsPage(t *testing.T) {
	cfg := assembly.DefaultConfig()

	tests := []struct {
		name string
		ext  assembly.Extent
	}{
		{name: "wide board", ext: assembly.Extent{MinX: 100, MinY: 100, MaxX: 150, MaxY: 130}},
		{name: "tall board", ext: assembly.Extent{MaxX: 20, MaxY: 200}},
		{name: "tiny board", ext: assembly.Extent{MaxX: 2, MaxY: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &assembly.Page{Extent: tt.ext}
			l := newLayout(page, &cfg)

			topLeft := l.point(vec.Vec2{X: 0, Y: -cfg.TextGap})
			bottomRight := l.point(vec.Vec2{X: page.Width(), Y: page.Height() + cfg.TextGap})
			lineH := cfg.FontSize * mmPerPoint
			const tol = 1e-9

			if topLeft.X < cfg.PageMargin-tol || bottomRight.X > cfg.PageWidth-cfg.PageMargin+tol {
				t.Errorf("board spans x %.3f..%.3f outside printable width", topLeft.X, bottomRight.X)
			}
			if topLeft.Y-lineH < cfg.PageMargin-tol || bottomRight.Y+lineH > cfg.PageHeight-cfg.PageMargin+tol {
				t.Errorf("content spans y %.3f..%.3f outside printable height", topLeft.Y-lineH, bottomRight.Y+lineH)
			}

			// centred horizontally
			left := topLeft.X - cfg.PageMargin
			right := cfg.PageWidth - cfg.PageMargin - bottomRight.X
			if math.Abs(left-right) > 1e-6 {
				t.Errorf("not centred: left %.3f right %.3f", left, right)
			}
		})
	}
}

func TestRGB(t *testing.T) {
	cfg := assembly.DefaultConfig()
	r, g, b := rgb(cfg.PadHighlightColor)
	if r != 0xAA || g != 0 || b != 0 {
		t.Errorf("rgb(#AA0000) = %d,%d,%d", r, g, b)
	}
	r, g, b = rgb(cfg.PadColor)
	if r != 0xD3 || g != 0xD3 || b != 0xD3 {
		t.Errorf("rgb(lightgray) = %d,%d,%d", r, g, b)
	}
}
