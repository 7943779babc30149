// Package main is the entry point for the seadrive-tray client.
package main

import (
	"os"

	"github.com/seadrive-io/seadrive-tray/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
