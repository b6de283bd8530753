package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/driver"
	"github.com/roach88/ldframe/internal/schema"
)

// CheckResult is the validate outcome for one document.
type CheckResult struct {
	Name       string             `json:"name"`
	Path       string             `json:"path,omitempty"`
	OK         bool               `json:"ok"`
	Code       string             `json:"code,omitempty"`
	Error      string             `json:"error,omitempty"`
	Violations []schema.Violation `json:"violations,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool          `json:"valid"`
	Frames []CheckResult `json:"frames"`
	Data   CheckResult   `json:"data"`
	Failed int           `json:"failed"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &ConfigFlags{}

	cmd := &cobra.Command{
		Use:   "validate [name...]",
		Short: "Check frame documents and the data document",
		Long: `Parse the named frame documents (all frames in the schema directory when
none are given), check that their framing keywords are well formed, and
parse the data document. No framing is performed.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Configuration error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, flags, args, cmd)
		},
	}

	flags.register(cmd, false)
	return cmd
}

func runValidate(opts *RootOptions, flags *ConfigFlags, names []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(cmd, opts, flags)
	if err != nil {
		return report(formatter, err)
	}

	d, err := driver.Open(cmd.Context(), cfg, driver.Options{Log: opts.logger(cmd)})
	if err != nil {
		return report(formatter, err)
	}
	defer d.Close()

	if len(names) == 0 {
		names, err = d.Frames()
		if err != nil {
			return report(formatter, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeConfig, Err: err})
		}
		formatter.VerboseLog("Found %d frame(s) in %s", len(names), cfg.SchemaDir)
	}

	result := ValidationResult{Frames: make([]CheckResult, 0, len(names))}
	for _, name := range names {
		r := toCheckResult(d.CheckFrame(name))
		if !r.OK {
			result.Failed++
		}
		result.Frames = append(result.Frames, r)
	}
	result.Data = toCheckResult(d.CheckData())
	if !result.Data.OK {
		result.Failed++
	}
	result.Valid = result.Failed == 0

	if opts.Format == "json" {
		if err := outputValidateJSON(cmd, result); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd, result)
	}

	if !result.Valid {
		return &ExitError{
			Code:     ExitFailure,
			ErrCode:  ErrCodeValidationFailed,
			Message:  fmt.Sprintf("%d document(s) invalid", result.Failed),
			Reported: true,
		}
	}
	return nil
}

func toCheckResult(r driver.Report) CheckResult {
	out := CheckResult{
		Name:       r.Name,
		Path:       r.Path,
		OK:         r.OK(),
		Violations: r.Violations,
	}
	if r.Err != nil {
		out.Code, _ = classify(r.Err)
		out.Error = r.Err.Error()
	} else if len(r.Violations) > 0 {
		out.Code = ErrCodeValidationFailed
	}
	return out
}

func outputValidateJSON(cmd *cobra.Command, result ValidationResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Valid {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeValidationFailed,
			Message: fmt.Sprintf("%d document(s) invalid", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

func outputValidateText(cmd *cobra.Command, result ValidationResult) {
	w := cmd.OutOrStdout()

	for _, r := range append(result.Frames, result.Data) {
		if r.OK {
			fmt.Fprintf(w, "✓ %s\n", r.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", r.Name)
		if r.Error != "" {
			fmt.Fprintf(w, "  [%s] %s\n", r.Code, r.Error)
		}
		for _, v := range r.Violations {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}

	fmt.Fprintln(w)
	if result.Valid {
		fmt.Fprintf(w, "✓ All documents valid (%d frame(s) and data)\n", len(result.Frames))
		return
	}
	fmt.Fprintf(w, "Validation failed: %d document(s) invalid\n", result.Failed)
}
