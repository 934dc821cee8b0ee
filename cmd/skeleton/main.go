package main

import (
	"os"

	"github.com/tormodhaugland/skeleton/cmd/skeleton/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
