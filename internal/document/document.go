// Package document writes assembly page scenes to a multi-page PDF.
package document

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/assembly"
)

const (
	mmPerPoint = 25.4 / 72
	fontFamily = "goregular"
)

// Writer accumulates pages and writes them out as one PDF.
type Writer struct {
	pdf   *fpdf.Fpdf
	cfg   assembly.Config
	pages int
}

// New starts an empty document using the page size, margins and font size of cfg.
func New(cfg assembly.Config) *Writer {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	pdf.SetMargins(cfg.PageMargin, cfg.PageMargin, cfg.PageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("OpenTracePnP", true)
	pdf.SetTitle("Assembly drawings", true)
	// Values contain runes outside cp1252 (Ω, µ, ±).
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.SetFont(fontFamily, "", cfg.FontSize)

	return &Writer{
		pdf: pdf,
		cfg: cfg,
	}
}

// PageCount returns the number of pages added so far.
func (w *Writer) PageCount() int {
	return w.pages
}

// AddPage draws page on a new sheet. The page is complete when AddPage returns.
func (w *Writer) AddPage(page *assembly.Page) error {
	w.pdf.AddPage()
	w.pages++

	l := newLayout(page, &w.cfg)
	for i := range page.Shapes {
		s := &page.Shapes[i]
		if !s.Visible() {
			continue
		}
		w.drawShape(s, l)
	}

	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("page %d: %w", w.pages, err)
	}
	return nil
}

// Save writes the document to path and closes it.
// A document without pages is written with one blank sheet.
func (w *Writer) Save(path string) error {
	if err := w.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteTo writes the document to out and closes it.
func (w *Writer) WriteTo(out io.Writer) error {
	if err := w.pdf.Output(out); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func (w *Writer) drawShape(s *assembly.Shape, l layout) {
	style := w.setPaint(s)

	switch s.Kind {
	case assembly.ShapeLine:
		if len(s.Points) < 2 {
			return
		}
		a, b := l.point(s.Points[0]), l.point(s.Points[1])
		w.pdf.Line(a.X, a.Y, b.X, b.Y)

	case assembly.ShapePolygon:
		pts := make([]fpdf.PointType, len(s.Points))
		for i, p := range s.Points {
			pts[i] = l.point(p)
		}
		w.pdf.Polygon(pts, style)

	case assembly.ShapeEllipse:
		c := l.point(s.Center)
		w.pdf.Ellipse(c.X, c.Y, s.RX*l.scale, s.RY*l.scale, s.Angle, style)

	case assembly.ShapeText:
		w.drawText(s, l)
	}
}

// setPaint selects colours and line width for s and returns the fpdf
// style string.
func (w *Writer) setPaint(s *assembly.Shape) string {
	style := ""
	if s.Fill != nil {
		w.pdf.SetFillColor(rgb(s.Fill))
		style += "F"
	}
	if s.Stroke != nil && s.LineWidth > 0 {
		w.pdf.SetDrawColor(rgb(s.Stroke))
		w.pdf.SetLineWidth(s.LineWidth * mmPerPoint)
		style += "D"
	}
	return style
}

func (w *Writer) drawText(s *assembly.Shape, l layout) {
	text := s.Text
	size := w.cfg.FontSize
	w.pdf.SetFontSize(size)

	// Long reference lists are shrunk to fit the printable width.
	if width := w.pdf.GetStringWidth(text); width > l.printW {
		size *= l.printW / width
		w.pdf.SetFontSize(size)
	}

	if s.Fill != nil {
		w.pdf.SetTextColor(rgb(s.Fill))
	}

	anchor := l.point(s.Center)
	x := anchor.X - w.pdf.GetStringWidth(text)/2
	y := anchor.Y
	if s.Align == assembly.AlignTop {
		y += size * mmPerPoint * 0.75
	}
	w.pdf.Text(x, y, text)

	w.pdf.SetFontSize(w.cfg.FontSize)
}

func rgb(c color.Color) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}
