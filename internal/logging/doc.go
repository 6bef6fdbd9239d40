// Package logging provides structured logging for the toolkit CLI using slog.
//
// The package supports text and JSON output, verbosity-derived levels
// (including [LevelTrace] for per-layer merge tracing), a colorized TTY
// handler that masks secret-looking attributes, and a fan-out
// [MultiHandler] used when --log-file is set.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//	})
//	logger.Debug("composing layers", "stacks", 2)
//
// Commands retrieve the configured logger with [FromContext]; tests use
// [ForTest] so log lines show up only on failure or with -v.
package logging
