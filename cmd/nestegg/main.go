package main

import (
	"os"

	"github.com/rustyeddy/nestegg/cmd/nestegg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
