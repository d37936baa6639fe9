package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/assembly"
	"github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"
)

var simpleBoard = filepath.Join("..", "..", "testdata", "simple.kicad_pcb")

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"board.kicad_pcb", "board_assembly.pdf"},
		{"/tmp/proj/main.kicad_pcb", "/tmp/proj/main_assembly.pdf"},
		{"rev.1.2.kicad_pcb", "rev.1.2_assembly.pdf"},
		{"noext", "noext_assembly.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.in), tt.in)
	}
}

func TestRun(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.pdf")
	var stdout bytes.Buffer

	sum, err := Run(Options{
		Input:  simpleBoard,
		Output: output,
		Config: assembly.DefaultConfig(),
		Stdout: &stdout,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Pages)
	assert.Equal(t, output, sum.Output)
	assert.Equal(t, assembly.PadCounts{TopTHT: 2, TopSMD: 6, BottomSMD: 2}, sum.Counts)

	want := []string{
		"Loading " + simpleBoard,
		"Plotting page (1/4)",
		"Plotting page (2/4)",
		"Plotting page (3/4)",
		"Plotting page (4/4)",
		"Top through-hole: 2",
		"Bottom through-hole: 0",
		"Top SMD pads: 6",
		"Bottom SMD pads: 2",
		"Output written to " + output,
	}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(stdout.String()), "\n"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRunList(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.pdf")
	var stdout bytes.Buffer

	sum, err := Run(Options{
		Input:  simpleBoard,
		Output: output,
		List:   true,
		Config: assembly.DefaultConfig(),
		Stdout: &stdout,
	})
	require.NoError(t, err)
	assert.Zero(t, sum.Pages)
	assert.Empty(t, sum.Output)

	got := stdout.String()
	assert.Contains(t, got, "Top (3 rows)")
	assert.Contains(t, got, "Bottom (1 rows)")
	assert.Contains(t, got, "R1, R2")
	assert.Less(t, strings.Index(got, "R1, R2"), strings.Index(got, "J1"))
	assert.NotContains(t, got, "H1")

	_, err = os.Stat(output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	data, err := os.ReadFile(simpleBoard)
	require.NoError(t, err)
	noOutline := filepath.Join(dir, "no_outline.kicad_pcb")
	stripped := strings.ReplaceAll(string(data), `(layer "Edge.Cuts")`, `(layer "Dwgs.User")`)
	require.NoError(t, os.WriteFile(noOutline, []byte(stripped), 0o644))

	badConfig := assembly.DefaultConfig()
	badConfig.PadScale = 0

	tests := []struct {
		name    string
		opts    Options
		check   func(t *testing.T, err error)
		outFile string
	}{
		{
			name: "missing board",
			opts: Options{Input: filepath.Join(dir, "missing.kicad_pcb"), Config: assembly.DefaultConfig()},
			check: func(t *testing.T, err error) {
				var le *pcb.LoadError
				assert.ErrorAs(t, err, &le)
			},
		},
		{
			name: "no outline",
			opts: Options{Input: noOutline, Config: assembly.DefaultConfig()},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, assembly.ErrNoBoardOutline)
			},
			outFile: OutputPath(noOutline),
		},
		{
			name: "invalid config",
			opts: Options{Input: simpleBoard, Config: badConfig},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "pad scale")
			},
		},
		{
			name: "unwritable output",
			opts: Options{Input: simpleBoard, Output: filepath.Join(dir, "nodir", "out.pdf"), Config: assembly.DefaultConfig()},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Stdout = &bytes.Buffer{}
			sum, err := Run(tt.opts)
			assert.Nil(t, sum)
			tt.check(t, err)

			if tt.outFile != "" {
				_, statErr := os.Stat(tt.outFile)
				assert.ErrorIs(t, statErr, os.ErrNotExist)
			}
		})
	}
}
