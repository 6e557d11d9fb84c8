package main

import (
	"os"

	"github.com/tcfw/forkchain/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
