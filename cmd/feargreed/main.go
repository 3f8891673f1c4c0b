package main

import (
	"os"

	"github.com/quantlab/feargreed/cmd/feargreed/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
