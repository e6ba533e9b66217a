// Package main is the entry point for the agentconsole CLI.
package main

import (
	"agentconsole/cli/cmd"
)

func main() {
	cmd.Execute()
}
