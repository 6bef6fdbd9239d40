// Package settings generates a project's .claude/settings.json and .mcp.json
// from layered templates.
//
// [Generate] loads the base layer, any stack overlays, and an optional
// project overlay, folds them with the merge engine, and inspects the
// result: schema findings are advisory warnings, security findings are
// errors that block output. When an MCP base is given, the server
// registry is merged in a separate pass with the project's overrides.
//
// The remaining helpers serve the CLI: [Render] produces deterministic
// JSON, [Write] replaces a file atomically, [Diff] compares rendered
// output with what is on disk, and [Query] evaluates a jq expression
// against a generated tree.
package settings
