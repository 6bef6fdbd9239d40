package doctor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCheck struct{ mock.Mock }

func (m *mockCheck) Name() string      { return m.Called().String(0) }
func (m *mockCheck) Category() string  { return m.Called().String(0) }
func (m *mockCheck) Run() *CheckResult { return m.Called().Get(0).(*CheckResult) }

func newMockCheck(t *testing.T, name string, status Severity) *mockCheck {
	t.Helper()
	m := &mockCheck{}
	m.On("Name").Return(name).Maybe()
	m.On("Category").Return("test").Maybe()
	m.On("Run").Return(&CheckResult{Name: name, Category: "test", Status: status}).Once()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func TestNewRunner(t *testing.T) {
	r := NewRunner()
	require.NotNil(t, r)
	assert.Empty(t, r.checks)
}

func TestRunner_AddCheck_PreservesOrder(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}
	for _, name := range names {
		r.AddCheck(newMockCheck(t, name, SeverityPass))
	}

	report := r.Run()
	require.Len(t, report.Results, 3)
	for i, want := range names {
		assert.Equal(t, want, report.Results[i].Name)
	}
}

func TestRunner_Run_Summary(t *testing.T) {
	r := NewRunner()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	r.now = func() time.Time { return fixed }

	r.AddCheck(newMockCheck(t, "a", SeverityPass))
	r.AddCheck(newMockCheck(t, "b", SeverityPass))
	r.AddCheck(newMockCheck(t, "c", SeverityInfo))
	r.AddCheck(newMockCheck(t, "d", SeverityWarning))
	r.AddCheck(newMockCheck(t, "e", SeverityError))

	report := r.Run()
	assert.Equal(t, Summary{Passed: 2, Info: 1, Warnings: 1, Errors: 1}, report.Summary)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
	assert.Equal(t, fixed.UTC(), report.Timestamp)
}

func TestRunner_Run_FillsMissingNames(t *testing.T) {
	m := &mockCheck{}
	m.On("Name").Return("named")
	m.On("Category").Return("cat")
	m.On("Run").Return(&CheckResult{Status: SeverityPass})

	r := NewRunner()
	r.AddCheck(m)
	report := r.Run()

	require.Len(t, report.Results, 1)
	assert.Equal(t, "named", report.Results[0].Name)
	assert.Equal(t, "cat", report.Results[0].Category)
}

func TestRunner_Run_SkipsNilResults(t *testing.T) {
	m := &mockCheck{}
	m.On("Run").Return((*CheckResult)(nil)).Once()

	report := NewRunner(m, newMockCheck(t, "kept", SeverityInfo)).Run()
	require.Len(t, report.Results, 1)
	assert.Equal(t, "kept", report.Results[0].Name)
	m.AssertExpectations(t)
}

func TestReport_Worst(t *testing.T) {
	tests := []struct {
		summary Summary
		want    Severity
	}{
		{Summary{}, SeverityPass},
		{Summary{Passed: 3}, SeverityPass},
		{Summary{Passed: 1, Info: 1}, SeverityInfo},
		{Summary{Info: 1, Warnings: 2}, SeverityWarning},
		{Summary{Warnings: 1, Errors: 1}, SeverityError},
	}
	for _, tt := range tests {
		r := &Report{Summary: tt.summary}
		assert.Equal(t, tt.want, r.Worst(), "summary %+v", tt.summary)
	}
}

func TestRunner_Run_Empty(t *testing.T) {
	report := NewRunner().Run()
	assert.Empty(t, report.Results)
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "x", Status: SeverityWarning})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"warning"`)

	var back CheckResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, SeverityWarning, back.Status)

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
	assert.Equal(t, "unknown", Severity(42).String())
}
