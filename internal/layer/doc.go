// Package layer loads settings layers from disk and resolves stack
// overlay names to files.
//
// A layer is a document whose top level is an object. JSON layers may
// carry comments and trailing commas; YAML and TOML layers are accepted
// too and normalized into the same tree shapes the merge engine expects.
// A dotenv file (".env") is a layer that only sets the "env" block.
package layer
