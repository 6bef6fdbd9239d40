// Package doctor runs health checks against a project's toolkit install.
//
// Each [Check] inspects one concern (the toolkit subtree, toolkit.toml,
// generated files, installed skills and agents) and returns a
// [CheckResult]. A [Runner] executes checks in registration order and
// aggregates a [Report] whose summary drives the exit code.
package doctor
