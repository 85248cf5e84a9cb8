package validation

import (
	"fmt"
	"strings"
)

// ViolationsError is returned by a handler that inspected its binding
// outcome and rejects the request with it.
type ViolationsError struct {
	Errors Errors
}

// NewViolationsError wraps e.
func NewViolationsError(e Errors) *ViolationsError {
	return &ViolationsError{Errors: e}
}

func (e *ViolationsError) Error() string {
	return "validation failed: " + e.Summary()
}

// Summary joins every violation as "location: message" separated by ",".
// A missing carrier yields "".
func (e *ViolationsError) Summary() string {
	if e == nil || e.Errors == nil {
		return ""
	}
	return joinViolations(e.Errors.AllViolations(), ",")
}

// BindingFailedError is raised by the dispatch layer, before the handler
// runs, when a payload that must be valid on entry has violations.
type BindingFailedError struct {
	Result *BindingResult
}

// NewBindingFailedError wraps result.
func NewBindingFailedError(result *BindingResult) *BindingFailedError {
	return &BindingFailedError{Result: result}
}

func (e *BindingFailedError) Error() string {
	if e == nil || e.Result == nil {
		return "binding failed"
	}
	return fmt.Sprintf("binding failed for %s: %s", e.Result.ObjectName(), joinViolations(e.Result.AllViolations(), ", "))
}

// Messages lists "location: message" for every field violation followed
// by every object violation.
func (e *BindingFailedError) Messages() []string {
	messages := []string{}
	if e == nil || e.Result == nil {
		return messages
	}

	for _, v := range e.Result.FieldViolations() {
		messages = append(messages, v.String())
	}
	for _, v := range e.Result.ObjectViolations() {
		messages = append(messages, v.String())
	}
	return messages
}

func joinViolations(violations []Violation, sep string) string {
	entries := make([]string, 0, len(violations))
	for _, v := range violations {
		entries = append(entries, v.String())
	}
	return strings.Join(entries, sep)
}
