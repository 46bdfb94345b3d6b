// Package errs is the error taxonomy shared by the codec, engine, pipeline
// and CLI layers, and the mapping from that taxonomy to process exit codes.
package errs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
)

var (
	ErrConfig   = errors.New("configuration error")
	ErrPath     = errors.New("path error")
	ErrBounds   = errors.New("bounds violation")
	ErrAlphabet = errors.New("alphabet error")
	ErrResource = errors.New("resource exhausted")
	ErrIO       = errors.New("i/o error")
)

// Exit codes reported to the shell.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// Error attaches a taxonomy kind and an operation name to an underlying error.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// E wraps err with kind. A nil err yields nil.
func E(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Ef builds an *Error from a format string.
func Ef(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// IsBrokenPipe reports whether err is a broken or closed pipe, as when a
// downstream consumer like `head` exits early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil, IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, ErrConfig), errors.Is(err, ErrPath):
		return ExitUsage
	default:
		return ExitRuntime
	}
}
