package detect

// indicator lists the files whose presence marks a stack, and globs
// checked at the project root and one directory below it.
type indicator struct {
	files []string
	globs []string
}

var stackIndicators = map[string]indicator{
	"python": {
		files: []string{"pyproject.toml", "requirements.txt", "setup.py", "setup.cfg"},
		globs: []string{"*.py"},
	},
	"typescript": {
		files: []string{"tsconfig.json"},
		globs: []string{"*.ts", "*.tsx"},
	},
	"ios": {
		files: []string{"Package.swift"},
		globs: []string{"*.xcodeproj", "*.swift"},
	},
}

// sourceDirCandidates are checked in order.
var sourceDirCandidates = []string{"src", "app", "lib", "packages"}

// versionFiles are checked in order; the first present wins.
var versionFiles = []string{"package.json", "pyproject.toml", "VERSION"}

// tool is a lint or format program. CheckArgs, when set, runs the tool
// without modifying files.
type tool struct {
	Exe         string
	Args        string
	CheckArgs   string
	VersionFlag string
}

var lintTools = map[string][]tool{
	"python":     {{Exe: "ruff", Args: "check", VersionFlag: "--version"}},
	"typescript": {{Exe: "eslint", VersionFlag: "--version"}},
	"ios":        {{Exe: "swiftlint", VersionFlag: "version"}},
}

var formatTools = map[string][]tool{
	"python":     {{Exe: "ruff", Args: "format", CheckArgs: "format --check .", VersionFlag: "--version"}},
	"typescript": {{Exe: "prettier", Args: "--write", CheckArgs: "--check .", VersionFlag: "--version"}},
	"ios":        {{Exe: "swiftformat", CheckArgs: "--dryrun .", VersionFlag: "--version"}},
}

var sourceExtensions = map[string][]string{
	"python":     {"*.py"},
	"typescript": {"*.ts", "*.tsx", "*.js", "*.jsx"},
	"ios":        {"*.swift"},
}
