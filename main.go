// Package main is the entry point for the jiralens CLI.
package main

import (
	"os"

	"github.com/danielolaszy/jiralens/cmd"
	"github.com/danielolaszy/jiralens/internal/logging"
)

// main executes the root command. Errors have already been reported to the
// operator by cmd.Execute, so only the exit status is set here.
func main() {
	logging.Debug("starting jiralens", "version", "1.0.0", "log_level", logging.LevelFromEnv())

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
