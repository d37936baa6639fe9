package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTracePnP/internal/config"
	"github.com/OpenTraceLab/OpenTracePnP/internal/logger"
	"github.com/OpenTraceLab/OpenTracePnP/internal/runner"
)

var (
	// Global flags
	verbose    bool
	configFile string
	outputFile string
	listOnly   bool
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "pnp <board.kicad_pcb>",
	Short: "Pick-and-place assembly drawings for KiCad boards",
	Long: `pnp reads a KiCad PCB file and writes a PDF with one page per
BOM line: the board outline with every pad of that line highlighted,
top side first, then the bottom side mirrored.

Examples:
  pnp board.kicad_pcb                    # Write board_assembly.pdf
  pnp -o out.pdf board.kicad_pcb         # Choose the output file
  pnp --list board.kicad_pcb             # Print the BOM, no PDF
  pnp --config pnp.yaml board.kicad_pcb  # Custom colours and page size`,
	Version:       "1.0.0",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVar(&configFile, "config", "", "render config file (YAML or TOML)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output PDF (default <board>_assembly.pdf)")
	rootCmd.Flags().BoolVar(&listOnly, "list", false, "print the top and bottom BOM instead of writing a PDF")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "append diagnostics to this file instead of stderr")
}

func runRoot(cmd *cobra.Command, args []string) error {
	logCfg := logger.DefaultConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	log, closeLog, err := openLogger(cmd, logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	_, err = runner.Run(runner.Options{
		Input:  args[0],
		Output: outputFile,
		List:   listOnly,
		Config: cfg,
		Logger: log,
		Stdout: cmd.OutOrStdout(),
	})
	return err
}

// openLogger logs to the command's stderr, or to --log-file when given.
func openLogger(cmd *cobra.Command, cfg *logger.Config) (*zap.Logger, func() error, error) {
	if logFile == "" {
		log := logger.NewWithWriter(cfg, cmd.ErrOrStderr())
		return log, log.Sync, nil
	}
	cfg.Output = logFile
	return logger.New(cfg)
}
