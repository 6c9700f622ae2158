package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"voicetracker/capture"
	"voicetracker/config"
	"voicetracker/session"
	"voicetracker/ui"
	"voicetracker/visual"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record expenses from the microphone",
	Long: `Opens the recorder. Press space to start and stop a recording, e to export
the result as CSV, r to clear it and record again, q to quit.`,
	Run: runRecord,
}

func init() {
	recordCmd.Flags().String("log-file", "", "Log file used while the recorder is open")
	viper.BindPFlag(config.KeyLogFile, recordCmd.Flags().Lookup("log-file"))
}

func runRecord(cmd *cobra.Command, args []string) {
	cfg := config.Load(viper.GetViper())

	// The recorder owns the terminal, so everything is logged to a file.
	fileLogger, closeLog, err := ui.OpenLogFile(cfg.LogFile, log.DebugLevel)
	if err != nil {
		log.Fatal("Failed to open log file", "error", err)
	}
	defer closeLog()
	logger = fileLogger

	mainLogger, hearLogger, gemLogger, _ := createLoggers()

	client := newTranscriber(cfg, gemLogger)
	defer client.Close()

	recorder := capture.NewRecorder(
		capture.PortAudio{},
		capture.Config{SampleRate: cfg.SampleRate},
		hearLogger,
	)
	controller := session.New(recorder, visual.New(cfg.FrameRate), client, mainLogger)
	defer controller.Close()

	mainLogger.Info("recorder open", "model", cfg.GeminiModel, "proxy", cfg.ProxyURL != "")
	if err := ui.Run(controller, ui.Options{ExportDir: cfg.ExportDir, Logger: mainLogger}); err != nil {
		mainLogger.Error("recorder", "error", err)
	}
}
