package document

import (
	"github.com/go-pdf/fpdf"
	"seehuhn.de/go/geom/vec"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/assembly"
)

// layout maps page-local millimetres onto the sheet.
//
// The board, the text gap above and below it, and one line of text on
// each side are fitted into the printable area, keeping the aspect ratio,
// and centred.
type layout struct {
	scale  float64
	origin vec.Vec2 // sheet position of the board's top-left corner
	printW float64
}

func newLayout(page *assembly.Page, cfg *assembly.Config) layout {
	printW := cfg.PageWidth - 2*cfg.PageMargin
	printH := cfg.PageHeight - 2*cfg.PageMargin
	lineH := cfg.FontSize * mmPerPoint

	w, h := page.Width(), page.Height()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	gap := max(cfg.TextGap, 0)

	scale := min(printW/w, (printH-2*lineH)/(h+2*gap))

	contentH := (h+2*gap)*scale + 2*lineH
	return layout{
		scale: scale,
		origin: vec.Vec2{
			X: cfg.PageMargin + (printW-w*scale)/2,
			Y: cfg.PageMargin + (printH-contentH)/2 + lineH + gap*scale,
		},
		printW: printW,
	}
}

func (l layout) point(p vec.Vec2) fpdf.PointType {
	return fpdf.PointType{
		X: l.origin.X + p.X*l.scale,
		Y: l.origin.Y + p.Y*l.scale,
	}
}
