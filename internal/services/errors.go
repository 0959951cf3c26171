package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks nonzero exits and missing output from tools.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks unusable input (missing file, unprobeable media).
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks setup problems such as lock contention.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks absent artifacts (plan file, progress file).
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks bounded external calls that ran out of time.
	ErrTimeout = errors.New("timeout")
	// ErrStorage marks checkpoint and plan persistence failures.
	ErrStorage = errors.New("storage error")
	// ErrInvalidState marks persisted artifacts that exist but do not decode
	// or validate. Readers treat them as absent, never partially trusted.
	ErrInvalidState = errors.New("invalid state")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the run instead of degrading
// to a local fallback. Tool failures and timeouts are recoverable at the
// call site; broken input, broken persistence, and misconfiguration are not.
func IsFatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrStorage):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
