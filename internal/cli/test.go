package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/driver"
	"github.com/roach88/ldframe/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	ConfigFlags
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run regression scenarios",
		Long: `Run the YAML regression scenarios found under <scenarios-dir>.

Each scenario frames the data document with a named frame and checks
assertions on the result. Passing scenarios are compared with their
<scenario>.golden snapshot when one exists.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, configuration, etc.)

Examples:
  ldframe test ./scenarios
  ldframe test ./scenarios --filter "person_*"
  ldframe test ./scenarios --update
  ldframe test ./scenarios --format json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	opts.ConfigFlags.register(cmd, false)
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by name (glob pattern)")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if info, err := os.Stat(scenariosDir); err != nil || !info.IsDir() {
		return report(formatter, &ExitError{
			Code:    ExitCommandError,
			ErrCode: ErrCodeUsage,
			Message: fmt.Sprintf("scenarios directory not found: %s", scenariosDir),
		})
	}

	cfg, err := loadConfig(cmd, opts.RootOptions, &opts.ConfigFlags)
	if err != nil {
		return report(formatter, err)
	}

	runner := harness.DriverRunner{
		Config:  cfg,
		Options: driver.Options{Log: opts.logger(cmd)},
	}
	result, err := harness.RunSuite(cmd.Context(), scenariosDir, runner, harness.SuiteOptions{
		Filter: opts.Filter,
		Update: opts.Update,
	})
	if err != nil {
		return report(formatter, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeUsage, Err: err})
	}

	if opts.Format == "json" {
		if err := outputTestJSON(cmd, result); err != nil {
			return err
		}
	} else {
		outputTestText(cmd, result, opts.Update)
	}

	if result.Failed > 0 {
		return &ExitError{
			Code:     ExitFailure,
			ErrCode:  ErrCodeTestFailed,
			Message:  fmt.Sprintf("%d scenario(s) failed", result.Failed),
			Reported: true,
		}
	}
	return nil
}

func outputTestJSON(cmd *cobra.Command, result *harness.SuiteResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

func outputTestText(cmd *cobra.Command, result *harness.SuiteResult, update bool) {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}

	for _, f := range result.Failures {
		name := f.Scenario
		if name == "" {
			name = f.Path
		}
		fmt.Fprintf(w, "✗ %s\n", name)
		fmt.Fprintf(w, "  %s\n", f.Error)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total", result.Passed, result.Failed, result.Total)
	if result.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", result.Skipped)
	}
	fmt.Fprintln(w)

	if update && result.Goldens > 0 {
		fmt.Fprintf(w, "Updated %d golden file(s)\n", result.Goldens)
	}
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
