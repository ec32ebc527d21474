package main

import (
	"os"

	"github.com/spf13/cobra"

	"scherzo/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "scherzod",
	Short: "Motion-control compute core command line",
	Long: `scherzod compiles G-code into a motion program and runs it against
either the in-process step simulator or a real MCU over serial.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a machine config JSON file (defaults to a built-in Cartesian config)")
	rootCmd.AddCommand(compileCmd, runCmd, serveCmd, dictCmd)
}

// loadConfig reads configPath if set, otherwise returns the built-in default.
func loadConfig() (*config.MachineConfig, error) {
	if configPath == "" {
		return config.DefaultCartesianConfig(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return config.LoadConfig(data)
}
