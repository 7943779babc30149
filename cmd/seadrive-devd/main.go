// Package main is the entry point for seadrive-devd, a development daemon
// that serves scripted notifications to seadrive-tray.
package main

import (
	"os"

	"github.com/seadrive-io/seadrive-tray/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
