package main

import (
	"fmt"
	"os"

	"optionheat/internal/cli"
	"optionheat/internal/config"
	"optionheat/internal/logging"
)

func main() {
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	logCfg.File = cfg.Logging.File
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs extracts the --config flag before cobra parses
// anything, so the directory is known at config load time.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
