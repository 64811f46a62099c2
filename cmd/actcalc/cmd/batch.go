package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/rpgo/actuarial-calculator/internal/output"
)

func newRunCmd(a *app) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run every calculation in a batch file",
		Long: `Run evaluates each calculation of a YAML or JSON batch file in order.
A failing calculation is reported with its error and the rest still run.

With --output-dir the report is written to a timestamped file instead of
stdout; --format all writes every format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			batch, err := a.engine.RunBatch(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if outputDir == "" {
				return a.print(cmd.OutOrStdout(), batch)
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			paths, err := output.GenerateReport(batch, a.format, outputDir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write reports to this directory")
	return cmd
}

func newExampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example batch file covering every calculation type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.parser.CreateExampleConfiguration()
			if len(args) == 1 {
				if err := output.SaveConfiguration(cfg, args[0]); err != nil {
					return fmt.Errorf("failed to write example: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		lo, hi  float64
		points  int
		csvPath string
	)
	cmd := &cobra.Command{
		Use:   "sweep <request.yaml>",
		Short: "Run a sensitivity sweep described in a file",
		Long: `Sweep reads a sensitivity request (target, grid or shocks, and the input
block for the target) and evaluates the target at every shocked parameter.
Points that cannot be evaluated are reported individually.

--min, --max and --points override the file's grid; shocks are percentage points.`,
		Example: `  actcalc sweep bond_shock.yaml --min -2 --max 2 --points 9 --csv sweep.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", args[0], err)
			}
			var req domain.SensitivityRequest
			if err := yaml.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("failed to parse sweep request: %w", err)
			}
			if cmd.Flags().Changed("points") {
				req.Shocks = nil
				req.Grid = domain.ShockGrid{Min: pct(lo), Max: pct(hi), Points: points}
			}

			res, err := a.evaluate(cmd, domain.Calculation{Name: string(req.Target), Type: domain.CalcSensitivity, Sensitivity: &req})
			if err != nil {
				return err
			}
			if csvPath == "" {
				return nil
			}
			out, err := output.SensitivityCSV(*res.Sensitivity)
			if err != nil {
				return err
			}
			return writeFile(csvPath, out)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&lo, "min", -3, "lowest shock in percentage points")
	f.Float64Var(&hi, "max", 3, "highest shock in percentage points")
	f.IntVar(&points, "points", 21, "number of grid points")
	f.StringVar(&csvPath, "csv", "", "write the sweep to a CSV file")
	return cmd
}
