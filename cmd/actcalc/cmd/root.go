package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/actuarial-calculator/internal/calculation"
	"github.com/rpgo/actuarial-calculator/internal/config"
	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/rpgo/actuarial-calculator/internal/log"
	"github.com/rpgo/actuarial-calculator/internal/output"
)

// app carries the state shared by every subcommand of one invocation
type app struct {
	logLevel  string
	logFormat string
	logFile   string
	format    string

	logger *log.Logger
	engine *calculation.CalculationEngine
	parser *config.InputParser
}

// Execute runs the root command against os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	a := &app{parser: config.NewInputParser()}

	root := &cobra.Command{
		Use:   "actcalc",
		Short: "Actuarial and financial calculator",
		Long: `actcalc evaluates time-value-of-money problems, annuities, bonds,
loan amortization, retirement projections and sensitivity sweeps.

Rates on the command line are percentages: --rate 5 means 5% a year.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&a.logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	pf.StringVarP(&a.format, "format", "f", "console", "output format (console, json, csv, html)")

	root.AddCommand(
		newTVMCmd(a),
		newAnnuityCmd(a),
		newBondCmd(a),
		newLoanCmd(a),
		newRetireCmd(a),
		newSweepCmd(a),
		newRunCmd(a),
		newExampleCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg := log.DefaultConfig()
	cfg.Level = a.logLevel
	cfg.Format = a.logFormat
	cfg.FilePath = a.logFile
	cfg.Component = log.ComponentApp
	cfg.Output = stderr

	logger, err := log.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	a.engine = calculation.NewCalculationEngine()
	a.engine.SetLogger(logger.WithComponent(log.ComponentEngine))
	return nil
}

// evaluate validates and runs one calculation, then prints it in the selected format
func (a *app) evaluate(cmd *cobra.Command, calc domain.Calculation) (domain.CalculationResult, error) {
	if err := a.parser.ValidateCalculation(&calc); err != nil {
		return domain.CalculationResult{}, fmt.Errorf("invalid %s input: %w", calc.Type, err)
	}
	res, err := a.engine.Run(cmd.Context(), calc)
	if err != nil {
		return res, err
	}
	batch := &domain.BatchResult{Name: calc.Name, Results: []domain.CalculationResult{res}}
	return res, a.print(cmd.OutOrStdout(), batch)
}

func (a *app) print(w io.Writer, batch *domain.BatchResult) error {
	f := output.GetFormatterByName(a.format)
	if f == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, a.format)
	}
	data, err := f.Format(batch)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// pct converts a percentage flag value to a fraction
func pct(v float64) float64 { return v / 100 }

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
