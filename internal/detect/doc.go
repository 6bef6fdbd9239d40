// Package detect inspects a project directory and reports what the toolkit
// needs to configure it: technology stacks, lint, format and test
// commands, source layout, and the state of the toolkit installation.
//
// Filesystem access goes through afero so detection can run against an
// in-memory tree in tests; external programs run through a [Runner].
package detect
