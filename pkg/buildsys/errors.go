package buildsys

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// GuardError reports a missing or invalid input (env var, file, directory,
// manifest entry). It always maps to exit status 1.
type GuardError struct {
	Message string
	// Hint is printed on a separate line below Message.
	Hint  string
	Cause error
}

func (e *GuardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

func (e *GuardError) Unwrap() error {
	return e.Cause
}

// Guard returns a GuardError with the given message
func Guard(msg string) error {
	return &GuardError{Message: msg}
}

// GuardHint returns a GuardError that carries an additional hint line
func GuardHint(msg, hint string) error {
	return &GuardError{Message: msg, Hint: hint}
}

// ExitError reports a failed external command (or a check that found
// differences). Code is used as the process exit status as-is. An empty Msg
// means the failure was already reported.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Msg
}

// Exitf returns an ExitError with the given code and message
func Exitf(code int, format string, args ...interface{}) error {
	return &ExitError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps err to the status pdfmake should exit with.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if eris.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}

	return 1
}
