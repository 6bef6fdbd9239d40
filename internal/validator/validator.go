package validator

import (
	"fmt"
	"strings"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError blocks output generation.
	SeverityError Severity = iota
	// SeverityWarning is advisory.
	SeverityWarning
	// SeverityInfo is informational.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return errors.Newf("unknown severity %q", b)
	}
	return nil
}

// Issue is a single validation finding.
type Issue struct {
	Severity Severity          `json:"severity"`
	Field    string            `json:"field,omitempty"`
	Message  string            `json:"message"`
	Value    any               `json:"value,omitempty"`
	Context  map[string]string `json:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString("field \"")
		sb.WriteString(i.Field)
		sb.WriteString("\": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates the findings for one artifact.
type Result struct {
	// Source names the artifact that was validated, such as "settings"
	// or a toolkit.toml path.
	Source string  `json:"source,omitempty"`
	Issues []Issue `json:"issues"`
}

// FromMessages builds a result from plain error and warning strings, in
// that order.
func FromMessages(source string, errs, warnings []string) *Result {
	r := &Result{Source: source, Issues: []Issue{}}
	for _, msg := range errs {
		r.AddError("", msg, nil)
	}
	for _, msg := range warnings {
		r.AddWarning("", msg, nil)
	}
	return r
}

// HasErrors reports whether any issue is an error.
func (r *Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings reports whether any issue is a warning.
func (r *Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

func (r *Result) count(s Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

func (r *Result) add(s Severity, field, message string, value any) {
	r.Issues = append(r.Issues, Issue{
		Severity: s,
		Field:    field,
		Message:  message,
		Value:    value,
	})
}

// AddError adds an error issue.
func (r *Result) AddError(field, message string, value any) {
	r.add(SeverityError, field, message, value)
}

// AddWarning adds a warning issue.
func (r *Result) AddWarning(field, message string, value any) {
	r.add(SeverityWarning, field, message, value)
}

// AddInfo adds an info issue.
func (r *Result) AddInfo(field, message string, value any) {
	r.add(SeverityInfo, field, message, value)
}

// Errors returns the error issues.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning issues.
func (r *Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}

// Err returns nil when the result has no errors. Otherwise it returns an
// error marked with [errors.ErrValidationFailed] that counts the errors.
func (r *Result) Err() error {
	n := r.count(SeverityError)
	if n == 0 {
		return nil
	}
	what := "output"
	if r.Source != "" {
		what = r.Source
	}
	return errors.Mark(errors.Newf("%s blocked by %d validation error(s)", what, n), errors.ErrValidationFailed)
}
