package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// annotatedError includes more context than a plain error that is useful for troubleshooting.
type annotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
	// err is the wrapped error, nil when the error starts a new chain.
	err error
}

// New creates an error annotated with the caller's source location and the given attributes.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotated(nil, msg, attrs)
}

// Wrap annotates err with a message, the caller's source location, and the given attributes.
//
// Returns nil when err is nil so that it can be used on the happy path without a nil check.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return newAnnotated(err, msg, attrs)
}

func newAnnotated(err error, msg string, attrs []slog.Attr) error {
	var pcs [1]uintptr
	// Skip runtime.Callers, newAnnotated, and the exported constructor.
	runtime.Callers(3, pcs[:])
	return &annotatedError{
		msg:   msg,
		pc:    pcs[0],
		attrs: attrs,
		err:   err,
	}
}

// NewSentinel creates a plain error without other context that can be used as
// a sentinel error detected with [Is].
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Error implements the error interface.
func (e *annotatedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.err.Error())
	}
	return e.msg
}

// Unwrap exposes the wrapped error for [Is] and [As].
func (e *annotatedError) Unwrap() error {
	return e.err
}

// source resolves the program counter to a file:line location so that developers
// can find the origin of the error faster.
func (e *annotatedError) source() string {
	frames := runtime.CallersFrames([]uintptr{e.pc})
	frame, _ := frames.Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// LogValue formats the error for useful logging.
func (e *annotatedError) LogValue() slog.Value {
	attrs := append(
		[]slog.Attr{slog.String("source", e.source())},
		e.attrs...,
	)

	return slog.GroupValue(attrs...)
}

// SlogError collects the message, the attributes, and the source locations from the whole
// error chain into a single attribute for logging.
func SlogError(err error) slog.Attr {
	attrs := []slog.Attr{slog.String("msg", err.Error())}
	var sources []string
	for chain := err; chain != nil; {
		var annotated *annotatedError
		if !errors.As(chain, &annotated) {
			break
		}
		sources = append(sources, annotated.source())
		attrs = append(attrs, annotated.attrs...)
		chain = annotated.Unwrap()
	}
	if len(sources) > 0 {
		attrs = append(attrs, slog.Any("sources", sources))
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
