package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minwook-byun/recpool/internal/intake"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected submission, failed scenario, storage error
	ExitCommandError = 2 // Command error (bad flags, unreadable registry or database)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is true when the command already printed the error through
	// its OutputFormatter, so Execute must not print it again.
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
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

// isReported reports whether err was already written to the output.
func isReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "REJECTED_DUPLICATE", "STORAGE_UNAVAILABLE", ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode render writes the human-readable form; a nil render prints data.
func (f *OutputFormatter) Success(data any, render func(w io.Writer)) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	if render != nil {
		render(f.Writer)
		return nil
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Rejection reports an intake error and returns the ExitError the command
// should return. Rejections and storage failures exit with ExitFailure.
func (f *OutputFormatter) Rejection(err error) error {
	var re *intake.RejectionError
	if errors.As(err, &re) {
		message := re.Message
		if len(re.Fields) > 0 {
			problems := make([]string, len(re.Fields))
			for i, fe := range re.Fields {
				problems[i] = fe.Field + " " + fe.Problem
			}
			message += ": " + strings.Join(problems, ", ")
		}
		if outErr := f.Error(string(re.Code), message, rejectionDetails(re)); outErr != nil {
			return outErr
		}
		return &ExitError{Code: ExitFailure, Message: message, Err: err, Reported: true}
	}

	if intake.IsStorageUnavailable(err) {
		if outErr := f.Error("STORAGE_UNAVAILABLE", "storage is unavailable, retry later", err.Error()); outErr != nil {
			return outErr
		}
		return &ExitError{Code: ExitFailure, Message: "storage unavailable", Err: err, Reported: true}
	}

	return WrapExitError(ExitFailure, "command failed", err)
}

func rejectionDetails(re *intake.RejectionError) map[string]any {
	details := map[string]any{}
	if re.Cycle != "" {
		details["cycle"] = re.Cycle
	}
	if re.DisplayName != "" {
		details["display_name"] = re.DisplayName
	}
	if re.ExistingName != "" {
		details["existing_name"] = re.ExistingName
	}
	if len(re.Fields) > 0 {
		details["fields"] = re.Fields
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
