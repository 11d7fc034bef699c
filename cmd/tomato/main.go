// Package main is the entry point for the tomato application.
// It loads configuration, opens storage, and starts the TUI or one of the
// subcommands.
package main

import (
	"fmt"
	"os"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
