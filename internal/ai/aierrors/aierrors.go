// Package aierrors classifies errors from the hosted LLM gateways so that
// callers can decide between retrying, surfacing a configuration problem, or
// giving up.
package aierrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Type categorizes a gateway error for retry decisions.
type Type int8

const (
	// TypeUnknown is the default for errors that match no known category.
	TypeUnknown Type = iota
	// TypeConfig covers authentication and setup problems (401, 403, bad
	// API key). Retrying cannot help until the deployment is fixed.
	TypeConfig
	// TypeQuota covers rate limiting and exhausted quotas (429).
	TypeQuota
	// TypeTransport covers network failures, timeouts, and 5xx responses.
	TypeTransport
	// TypeBadPrompt covers requests the gateway rejected (400, too long).
	TypeBadPrompt
	// TypeEmptyResponse covers HTTP 200 responses without usable content.
	TypeEmptyResponse
)

func (t Type) String() string {
	switch t {
	case TypeConfig:
		return "config"
	case TypeQuota:
		return "quota"
	case TypeTransport:
		return "transport"
	case TypeBadPrompt:
		return "bad_prompt"
	case TypeEmptyResponse:
		return "empty_response"
	case TypeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Error is a classified gateway error.
type Error struct {
	Err        error
	Message    string
	Type       Type
	StatusCode int
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("llm %s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("llm %s error: %s", e.Type, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("llm %s error: %v", e.Type, e.Err)
	default:
		return fmt.Sprintf("llm %s error", e.Type)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether another attempt could plausibly succeed.
// Only quota and transport failures qualify.
func (e *Error) IsRetryable() bool {
	return e.Type == TypeQuota || e.Type == TypeTransport
}

func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

func WithCause(t Type, cause error, message string) *Error {
	return &Error{Type: t, Err: cause, Message: message}
}

// FromStatusCode classifies by HTTP status when the gateway reported one,
// falling back to Classify for codes that don't decide on their own.
func FromStatusCode(statusCode int, cause error) *Error {
	if e := fromStatus(statusCode, cause); e != nil {
		return e
	}

	return Classify(cause)
}

func fromStatus(statusCode int, cause error) *Error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &Error{Type: TypeConfig, StatusCode: statusCode, Err: cause, Message: "authentication failed, check the API key"}
	case statusCode == http.StatusTooManyRequests:
		return &Error{Type: TypeQuota, StatusCode: statusCode, Err: cause, Message: "rate limit exceeded"}
	case statusCode == http.StatusBadRequest ||
		statusCode == http.StatusRequestEntityTooLarge ||
		statusCode == http.StatusUnprocessableEntity:
		return &Error{Type: TypeBadPrompt, StatusCode: statusCode, Err: cause, Message: "gateway rejected the request"}
	case statusCode == http.StatusRequestTimeout || statusCode >= http.StatusInternalServerError:
		return &Error{Type: TypeTransport, StatusCode: statusCode, Err: cause, Message: "gateway error"}
	default:
		return nil
	}
}

var statusCodePattern = regexp.MustCompile(`\b([45]\d{2})\b`)

// Classify maps an arbitrary gateway error to a classified Error. Status
// codes embedded in the error text win over string patterns.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return WithCause(TypeTransport, err, "request timed out")
	}

	if errors.Is(err, context.Canceled) {
		return WithCause(TypeTransport, err, "request cancelled")
	}

	errStr := err.Error()
	if match := statusCodePattern.FindString(errStr); match != "" {
		if code, convErr := strconv.Atoi(match); convErr == nil {
			if e := fromStatus(code, err); e != nil {
				return e
			}
		}
	}

	lower := strings.ToLower(errStr)
	switch {
	case containsAny(lower, "timeout", "connection", "network", "temporary", "eof", "reset"):
		return WithCause(TypeTransport, err, "network or connection error")
	case containsAny(lower, "rate", "quota", "overloaded"):
		return WithCause(TypeQuota, err, "rate limiting detected")
	case containsAny(lower, "unauthorized", "api key", "auth", "permission"):
		return WithCause(TypeConfig, err, "authentication error")
	case containsAny(lower, "invalid", "malformed", "too large", "context length"):
		return WithCause(TypeBadPrompt, err, "gateway rejected the request")
	default:
		return WithCause(TypeUnknown, err, "")
	}
}

func containsAny(s string, patterns ...string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}

	return false
}

// Is reports whether err is a classified Error of the given type.
func Is(err error, t Type) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Type == t
	}

	return false
}

// TypeOf returns the classified type of err, or TypeUnknown.
func TypeOf(err error) Type {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Type
	}

	return TypeUnknown
}

// IsRetryable reports whether err is a classified Error worth retrying.
// Unclassified errors are not retried.
func IsRetryable(err error) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.IsRetryable()
	}

	return false
}
