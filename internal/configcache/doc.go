// Package configcache turns .claude/toolkit.toml into a bash-sourceable
// env file so hooks can read project configuration without a TOML parser.
//
// Every leaf becomes one TOOLKIT_-prefixed variable: nested keys are joined
// with underscores, hyphens become underscores, and names are uppercased.
//
//	[hooks.setup]
//	required_tools = ["ruff", "jq"]
//
// becomes
//
//	TOOLKIT_HOOKS_SETUP_REQUIRED_TOOLS='["ruff","jq"]'
//
// The TOML is checked against [Schema] before anything is generated, and
// the generated file is parsed back as bash before it is returned.
package configcache
