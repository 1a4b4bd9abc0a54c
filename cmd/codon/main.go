// cmd/codon/main.go
package main

import (
	cmd "github.com/mwiater/codon/internal/cli"
)

// Build-time variables injected with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the codon CLI application by delegating to the
// cobra root command defined in the cli package.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
