package main

import (
	"os"

	"github.com/menta2k/resolvekit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
