// Package tokens summarizes token usage and estimated cost from Claude
// session transcripts.
//
// A transcript is a JSONL file. Only assistant messages that carry a usage
// block are counted, grouped by agent: the main session is "main" and each
// subagent reports under its agentId. Directories are scanned for
// *.jsonl files and <session>/subagents/*.jsonl files.
package tokens
