// Command ground is the thin CLI shell around the Ground kernels: a
// JSON-RPC/MCP stdio server for agent integrations plus two
// directory-scoped reporting commands, per §6. Exit codes follow §6
// exactly: 0 (no findings, or all findings excepted), 1 (a violation
// remains), 2 (configuration or I/O error), the same three-tier
// convention cmd/aleutian uses for its own subcommands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigOrIOError)
	}
}
