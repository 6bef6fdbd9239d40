// Package config manages the toolkit CLI's own configuration.
//
// This is distinct from the Claude settings the toolkit generates: it
// tells the CLI where the toolkit subtree lives, which fields steer the
// merge, and how to price tokens.
//
// # Configuration File
//
// The file is $XDG_CONFIG_HOME/claude-toolkit/config.yaml, or the
// directory named by CLAUDE_TOOLKIT_CONFIG_DIR:
//
//	version: 1
//	toolkit_dir: .claude/toolkit
//	merge:
//	  key_field: matcher
//	  concat_field: hooks
//	  registry_key: mcpServers
//	pricing:
//	  input: 15
//	  output: 75
//	  cache_write: 18.75
//	  cache_read: 1.5
//	smart_context:
//	  context_dir: docs/context
//	  suffix: -domain.md
//	  max_size: 8192
//
// Every key can be overridden from the environment with the
// CLAUDE_TOOLKIT_ prefix, dots becoming underscores:
//
//	CLAUDE_TOOLKIT_MERGE_KEY_FIELD=name toolkit settings generate ...
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// Load validates what it reads; see [Validate].
package config
