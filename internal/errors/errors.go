// Package errors defines the stable error code system for vulegen.
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract; scripts match on these.
const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Precondition failures
	EMissingName      Code = "E_MISSING_NAME"
	EPathExists       Code = "E_PATH_EXISTS"
	ENotAProject      Code = "E_NOT_A_PROJECT"
	EUnrecognizedWord Code = "E_UNRECOGNIZED_WORD"
	EDuplicateModel   Code = "E_DUPLICATE_MODEL"
	EModelNotFound    Code = "E_MODEL_NOT_FOUND"
	EIndexCorrupt     Code = "E_INDEX_CORRUPT"
	ELocked           Code = "E_LOCKED"
	EConfigInvalid    Code = "E_CONFIG_INVALID"
	ETemplateFailed   Code = "E_TEMPLATE_FAILED"

	// I/O failures
	EReadFailed  Code = "E_READ_FAILED"
	EWriteFailed Code = "E_WRITE_FAILED"

	// Health and tooling
	EInconsistent  Code = "E_INCONSISTENT"
	EInstallFailed Code = "E_INSTALL_FAILED"
)

// VulegenError is the standard error type for vulegen errors.
type VulegenError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *VulegenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *VulegenError) Unwrap() error {
	return e.Cause
}

// New creates a new VulegenError with the given code and message.
func New(code Code, msg string) error {
	return &VulegenError{Code: code, Msg: msg}
}

// Newf is New with fmt.Sprintf formatting of the message.
func Newf(code Code, format string, args ...any) error {
	return &VulegenError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// NewWithDetails creates a new VulegenError with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &VulegenError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new VulegenError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &VulegenError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new VulegenError wrapping an underlying error with details.
// Details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &VulegenError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not a VulegenError.
func GetCode(err error) Code {
	var ve *VulegenError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// AsVulegenError returns (*VulegenError, true) if err is or wraps a VulegenError.
func AsVulegenError(err error) (*VulegenError, bool) {
	var ve *VulegenError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for usage errors (E_USAGE, E_MISSING_NAME), 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case EUsage, EMissingName:
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//	<key>: <value>   (one line per detail, sorted by key)
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ve *VulegenError
	if !errors.As(err, &ve) {
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintf(w, "error_code: %s\n", ve.Code)
	fmt.Fprintln(w, ve.Msg)

	keys := make([]string, 0, len(ve.Details))
	for k := range ve.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, ve.Details[k])
	}
}
