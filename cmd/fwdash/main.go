package main

import (
	"os"

	"github.com/rileyhilliard/fwdash/internal/cli"
	"github.com/rileyhilliard/fwdash/internal/errors"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	err := cli.Execute()
	if code := cli.ExitCode(err); code != 0 {
		if code == 1 {
			errors.Dump(os.Stderr, err)
		}
		os.Exit(code)
	}
}
