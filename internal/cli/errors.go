package cli

import (
	"errors"

	"github.com/roach88/ldframe/internal/config"
	"github.com/roach88/ldframe/internal/document"
	"github.com/roach88/ldframe/internal/driver"
	"github.com/roach88/ldframe/internal/framing"
)

// Error codes.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeUsage            = "E201" // Invalid arguments or frame name
	ErrCodeMissingFrame     = "E202" // Frame document not found
	ErrCodeMissingData      = "E203" // Data document not found
	ErrCodeMalformedJSON    = "E204" // Input is not a single JSON value
	ErrCodeFraming          = "E205" // JSON-LD processor failure
	ErrCodeOutput           = "E206" // Writing the result failed
	ErrCodeConfig           = "E207" // Configuration error
	ErrCodeValidationFailed = "E208" // validate found problems
	ErrCodeTestFailed       = "E209" // test scenarios failed
)

// classify maps an error to its E-code and exit status.
func classify(err error) (string, int) {
	switch document.KindOf(err) {
	case document.KindInvalidName:
		return ErrCodeUsage, ExitCommandError
	case document.KindMissingFrame:
		return ErrCodeMissingFrame, ExitCommandError
	case document.KindMissingData:
		return ErrCodeMissingData, ExitCommandError
	case document.KindMalformed:
		return ErrCodeMalformedJSON, ExitCommandError
	}

	var (
		fe     *framing.FramingError
		oe     *driver.OutputError
		cfgErr *config.Error
	)
	switch {
	case errors.As(err, &fe):
		return ErrCodeFraming, ExitFailure
	case errors.As(err, &oe):
		return ErrCodeOutput, ExitFailure
	case errors.As(err, &cfgErr):
		return ErrCodeConfig, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// errorDetails returns structured context for the JSON error envelope.
func errorDetails(err error) any {
	var (
		jsonErr  *document.MalformedJSONError
		frameErr *document.MissingFrameError
		dataErr  *document.MissingDataError
		fe       *framing.FramingError
	)
	switch {
	case errors.As(err, &jsonErr):
		d := map[string]any{"path": jsonErr.Path}
		if jsonErr.Line > 0 {
			d["line"] = jsonErr.Line
			d["column"] = jsonErr.Column
		}
		return d
	case errors.As(err, &frameErr):
		return map[string]any{"frame": frameErr.Name, "path": frameErr.Path}
	case errors.As(err, &dataErr):
		return map[string]any{"path": dataErr.Path}
	case errors.As(err, &fe):
		if fe.Code != "" {
			return map[string]any{"op": fe.Op, "code": fe.Code}
		}
		return map[string]any{"op": fe.Op}
	}
	return nil
}

// report writes err through the formatter and returns the ExitError the
// command should return.
func report(f *OutputFormatter, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Reported {
			return exitErr
		}
		code := exitErr.ErrCode
		if code == "" {
			code = ErrCodeGeneric
		}
		_ = f.Error(code, exitErr.Error(), errorDetails(exitErr.Err))
		exitErr.Reported = true
		return exitErr
	}

	code, exit := classify(err)
	_ = f.Error(code, err.Error(), errorDetails(err))
	return &ExitError{Code: exit, ErrCode: code, Err: err, Reported: true}
}
