// Package paths resolves the files the toolkit reads and writes.
//
// Per-user configuration lives under the XDG config home (via
// github.com/adrg/xdg) unless CLAUDE_TOOLKIT_CONFIG_DIR is set.
//
// Per-project files are resolved from the project root:
//
//	| File                         | Helper            |
//	|------------------------------|-------------------|
//	| .claude/settings.json        | SettingsPath      |
//	| .mcp.json                    | MCPPath           |
//	| .claude/toolkit.toml         | ToolkitTOMLPath   |
//	| .claude/toolkit-cache.env    | CachePath         |
//	| .claude/toolkit/             | ToolkitDir        |
//
// The toolkit subtree carries the templates that feed settings generation:
//
//	paths.BaseSettingsPath(dir) // <dir>/templates/settings-base.json
//	paths.StacksDir(dir)        // <dir>/templates/stacks/
//	paths.MCPBasePath(dir)      // <dir>/templates/mcp-base.json
package paths
