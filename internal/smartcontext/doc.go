// Package smartcontext implements the UserPromptSubmit hook that injects
// project domain context into a prompt.
//
// Context files live in a project directory (docs/context by default) and
// end in a fixed suffix (-domain.md). Each file declares its keywords in
// an HTML comment:
//
//	<!-- keywords: billing, invoice, stripe -->
//
// A file scores one point per keyword found in the lowercased prompt.
// Matching files are emitted highest score first until the size budget is
// spent. Files listed in Options.AlwaysInclude are emitted first
// regardless of keywords.
package smartcontext
