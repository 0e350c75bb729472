package main

import (
	"fmt"
	"os"

	"github.com/hishamalhadi/chitchats-mcp/cmd/chitchats-mcp/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
