// Package main is the entry point for the blockzap CLI.
package main

import (
	"os"

	"github.com/jmylchreest/blockzap/cmd/blockzap/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
