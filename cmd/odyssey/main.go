package main

import (
	"os"

	"github.com/rustyeddy/odyssey/cmd/odyssey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
