package main

import (
	"os"

	"github.com/msto63/deepclock/cmd/deepclock/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
