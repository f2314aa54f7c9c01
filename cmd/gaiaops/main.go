// Package main is the entry point for the gaiaops CLI.
package main

import (
	"os"

	"github.com/gaiacoin/gaiaops/internal/cli"
)

// Set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // link-time build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	err := cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
