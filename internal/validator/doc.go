// Package validator collects validation findings for generated artifacts
// and renders them for the terminal or as JSON.
//
// Security rejections and config-cache schema errors become
// [SeverityError] issues; advisory schema findings become
// [SeverityWarning] issues. Any error blocks the artifact from being
// written:
//
//	res := validator.FromMessages("settings", errs, warnings)
//	if err := res.Err(); err != nil {
//		_ = validator.NewReporter(os.Stderr, validator.FormatText).Report(res)
//		return err
//	}
package validator
