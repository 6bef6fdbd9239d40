package doctor

import "time"

// Check is one diagnostic. Run never returns an error: problems are
// reported through the result's Status.
type Check interface {
	Name() string
	Category() string
	Run() *CheckResult
}

// Runner runs checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner returns a runner holding checks.
func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: checks, now: time.Now}
}

// AddCheck appends c to the run.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check. A check that returns nil is left out of the
// report; a result without a name or category takes the check's.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, c := range r.checks {
		res := c.Run()
		if res == nil {
			continue
		}
		if res.Name == "" {
			res.Name = c.Name()
		}
		if res.Category == "" {
			res.Category = c.Category()
		}
		report.Results = append(report.Results, res)
		report.Summary.add(res.Status)
	}
	return report
}

// Report is the outcome of one doctor run.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// Worst returns the most severe status in the report, or SeverityPass
// when it is empty.
func (r *Report) Worst() Severity {
	switch {
	case r.Summary.Errors > 0:
		return SeverityError
	case r.Summary.Warnings > 0:
		return SeverityWarning
	case r.Summary.Info > 0:
		return SeverityInfo
	}
	return SeverityPass
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool { return r.Summary.Errors > 0 }

// HasWarnings reports whether any check warned.
func (r *Report) HasWarnings() bool { return r.Summary.Warnings > 0 }
