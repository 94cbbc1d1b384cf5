package agent

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Class buckets an external-call failure for the retry policy.
type Class int

const (
	// ClassNetwork covers connection failures and anything unclassified.
	ClassNetwork Class = iota
	// ClassTransient covers 5xx-style upstream errors.
	ClassTransient
	// ClassRateLimited covers 429-style throttling.
	ClassRateLimited
	// ClassQuota means the account is out of quota; retrying cannot help.
	ClassQuota
	// ClassInvalid means the request itself is wrong; retrying cannot help.
	ClassInvalid
)

// String returns the class label used in logs and error messages.
func (c Class) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassRateLimited:
		return "rate_limited"
	case ClassQuota:
		return "quota_exceeded"
	case ClassInvalid:
		return "invalid_request"
	default:
		return "network"
	}
}

// Retryable reports whether the retry policy may attempt the call again.
func (c Class) Retryable() bool {
	switch c {
	case ClassQuota, ClassInvalid:
		return false
	default:
		return true
	}
}

// CallError is a classified failure from the research or synthesis runtime.
type CallError struct {
	Op    string
	Class Class
	Err   error
}

// Error implements the error interface with an actionable message.
func (e *CallError) Error() string {
	switch e.Class {
	case ClassQuota:
		return fmt.Sprintf("%s: API quota exceeded, check your billing: %v", e.Op, e.Err)
	case ClassRateLimited:
		return fmt.Sprintf("%s: rate limited, retry later: %v", e.Op, e.Err)
	case ClassInvalid:
		return fmt.Sprintf("%s: invalid request: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Class, e.Err)
	}
}

// Unwrap exposes the underlying error.
func (e *CallError) Unwrap() error { return e.Err }

// ClassifyStatus maps an upstream HTTP status to a call error.
func ClassifyStatus(op string, status int, message string) *CallError {
	err := fmt.Errorf("status %d: %s", status, message)
	switch {
	case status == http.StatusTooManyRequests:
		return &CallError{Op: op, Class: ClassRateLimited, Err: err}
	case status == http.StatusPaymentRequired:
		return &CallError{Op: op, Class: ClassQuota, Err: err}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &CallError{Op: op, Class: ClassInvalid, Err: err}
	case status >= 500:
		return &CallError{Op: op, Class: ClassTransient, Err: err}
	default:
		return classifyMessage(op, err, message)
	}
}

// ClassifyErr wraps an arbitrary error, inspecting its text when it is not
// already classified. Provider SDK errors carry status hints in their text.
func ClassifyErr(op string, err error) *CallError {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr
	}
	return classifyMessage(op, err, err.Error())
}

func classifyMessage(op string, err error, message string) *CallError {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return &CallError{Op: op, Class: ClassQuota, Err: err}
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return &CallError{Op: op, Class: ClassRateLimited, Err: err}
	case strings.Contains(msg, "invalid") && strings.Contains(msg, "argument"):
		return &CallError{Op: op, Class: ClassInvalid, Err: err}
	case strings.Contains(msg, "500") || strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") || strings.Contains(msg, "504"):
		return &CallError{Op: op, Class: ClassTransient, Err: err}
	default:
		return &CallError{Op: op, Class: ClassNetwork, Err: err}
	}
}
