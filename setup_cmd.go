package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"voicetracker/config"
	"voicetracker/setup"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store your Gemini API key and preferences",
	Run:   runSetup,
}

func runSetup(cmd *cobra.Command, args []string) {
	mainLogger, _, _, _ := createLoggers()

	path := viper.ConfigFileUsed()
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			mainLogger.Fatal("locate config directory", "error", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if err := setup.Run(path, config.Load(viper.GetViper())); err != nil {
		mainLogger.Fatal("Error during setup", "error", err)
	}
}
