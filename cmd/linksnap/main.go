package main

import (
	"os"

	"github.com/goflowspace/linksnap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
