// Package main is the entry point for mbcli, a command-line client for the
// Metabase API.
package main

import (
	"mbcli/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
