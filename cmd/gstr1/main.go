package main

import (
	"os"

	"github.com/cleared-dev/gstr1/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
