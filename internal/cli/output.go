package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"Astrolabe/internal/domain/models"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Computation failure (ephemeris, degenerate cusps, failed batch items)
	ExitCommandError = 2 // Command or input error (bad flags, invalid request, config)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
	// Reported is set once the error has been written to the output.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose/diagnostic output, defaults to Writer
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Error   *CLIError   `json:"error,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// TextRenderer is implemented by results with a human-readable form.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}, traceID string) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data, TraceID: traceID})
	}
	if r, ok := data.(TextRenderer); ok {
		return r.RenderText(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}, traceID string) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status:  "error",
			Error:   &CLIError{Code: code, Message: message, Details: details},
			TraceID: traceID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// VerboseLog outputs a message to ErrWriter only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Fail reports err in the configured format and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(err error, traceID string) error {
	code, details := errorCode(err)
	exit := WrapExitError(exitCodeFor(err), "command failed", err)
	var existing *ExitError
	if errors.As(err, &existing) {
		exit.Code = existing.Code
		if existing.Reported {
			return existing
		}
	}
	if outErr := f.Error(code, errorMessage(err), details, traceID); outErr != nil {
		return outErr
	}
	exit.Reported = true
	return exit
}

func errorCode(err error) (string, interface{}) {
	var ce *models.CoreError
	if errors.As(err, &ce) {
		details := map[string]interface{}{}
		if ce.Field != "" {
			details["field"] = ce.Field
		}
		for k, v := range ce.Params {
			details[k] = v
		}
		if len(details) == 0 {
			return ce.Code, nil
		}
		return ce.Code, details
	}
	return "ERR_COMMAND", nil
}

func errorMessage(err error) string {
	var ce *models.CoreError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return err.Error()
}

// exitCodeFor maps input problems to ExitCommandError and computation problems to ExitFailure.
func exitCodeFor(err error) int {
	switch models.CodeOf(err) {
	case models.CodeEphemeris, models.CodeDegenerateCuspData:
		return ExitFailure
	case "":
		return ExitFailure
	default:
		return ExitCommandError
	}
}
