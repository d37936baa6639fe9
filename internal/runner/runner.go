// Package runner drives a complete assembly-drawing run: load the board,
// build the per-side BOMs, render one page per row and write the PDF.
package runner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTracePnP/internal/document"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/assembly"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
)

// Options configures a run.
type Options struct {
	Input  string // .kicad_pcb path
	Output string // PDF path; empty derives it from Input
	List   bool   // print the BOM tables instead of writing a PDF

	Config assembly.Config
	Logger *zap.Logger
	Stdout io.Writer // progress lines; nil means os.Stdout
}

// Summary describes a finished run.
type Summary struct {
	Pages  int
	Counts assembly.PadCounts
	Output string // empty in list mode
}

// OutputPath returns the default PDF path for a board file:
// "board.kicad_pcb" becomes "board_assembly.pdf".
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_assembly.pdf"
}

type job struct {
	side assembly.Side
	row  bom.Row
}

// Run executes one run. The first error aborts it.
func Run(opts Options) (*Summary, error) {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Logger = log

	fmt.Fprintf(out, "Loading %s\n", opts.Input)
	board, err := pcb.ParseFile(opts.Input)
	if err != nil {
		return nil, err
	}
	log.Debug("board loaded",
		zap.String("path", opts.Input),
		zap.Int("version", board.Version),
		zap.String("generator", board.Generator),
		zap.Int("footprints", len(board.Footprints)),
		zap.Int("drawings", len(board.Drawings)))

	front, back := pcb.LayerFront, pcb.LayerBack
	topRows := bom.GenerateBOM(board, &front)
	bottomRows := bom.GenerateBOM(board, &back)

	if opts.List {
		if err := bom.Table(out, "Top", topRows); err != nil {
			return nil, err
		}
		fmt.Fprintln(out)
		if err := bom.Table(out, "Bottom", bottomRows); err != nil {
			return nil, err
		}
		return &Summary{}, nil
	}

	jobs := make([]job, 0, len(topRows)+len(bottomRows))
	for _, r := range topRows {
		jobs = append(jobs, job{side: assembly.SideTop, row: r})
	}
	for _, r := range bottomRows {
		jobs = append(jobs, job{side: assembly.SideBottom, row: r})
	}

	output := opts.Output
	if output == "" {
		output = OutputPath(opts.Input)
	}

	doc := document.New(cfg)
	summary := &Summary{Output: output}
	for i, j := range jobs {
		fmt.Fprintf(out, "Plotting page (%d/%d)\n", i+1, len(jobs))

		page, counts, err := assembly.RenderPage(board, j.row, j.side, cfg)
		if err != nil {
			return nil, fmt.Errorf("page %d (%s %s): %w", i+1, j.side, j.row, err)
		}
		if err := doc.AddPage(page); err != nil {
			return nil, err
		}
		summary.Counts.Add(counts)
		summary.Pages++
	}

	fmt.Fprintf(out, "Top through-hole: %d\n", summary.Counts.TopTHT)
	fmt.Fprintf(out, "Bottom through-hole: %d\n", summary.Counts.BottomTHT)
	fmt.Fprintf(out, "Top SMD pads: %d\n", summary.Counts.TopSMD)
	fmt.Fprintf(out, "Bottom SMD pads: %d\n", summary.Counts.BottomSMD)

	if err := doc.Save(output); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Output written to %s\n", output)

	return summary, nil
}
