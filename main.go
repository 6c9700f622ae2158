package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"voicetracker/config"
	"voicetracker/gemini"
	"voicetracker/transcription"
)

var logger *log.Logger

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)

	rootCmd.PersistentFlags().String("gemini-api-key", "", "Gemini API key")
	rootCmd.PersistentFlags().String("gemini-model", "", "Gemini model name")
	rootCmd.PersistentFlags().String("proxy-url", "", "Send recordings through this proxy instead of calling Gemini directly")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Deadline for one transcription request")
	rootCmd.PersistentFlags().String("export-dir", "", "Directory for CSV exports")

	viper.BindPFlag(
		config.KeyGeminiAPIKey,
		rootCmd.PersistentFlags().Lookup("gemini-api-key"),
	)
	viper.BindPFlag(
		config.KeyGeminiModel,
		rootCmd.PersistentFlags().Lookup("gemini-model"),
	)
	viper.BindPFlag(config.KeyProxyURL, rootCmd.PersistentFlags().Lookup("proxy-url"))
	viper.BindPFlag(config.KeyTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag(config.KeyExportDir, rootCmd.PersistentFlags().Lookup("export-dir"))
}

func initConfig() {
	if err := config.Init(viper.GetViper()); err != nil {
		fmt.Printf("Error reading config file: %s\n", err)
	}

	logger = log.New(os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "voicetracker",
	Short: "Record spoken expenses and turn them into a list",
	Long: `voicetracker records what you say about your spending, sends it to Gemini
for transcription, translation and expense extraction, and shows the
resulting list with a total you can export as CSV.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newTranscriber(cfg config.Config, gemLogger *log.Logger) *transcription.Client {
	return transcription.NewClient(cfg.Transcription(), gemini.NewGenerator(gemLogger), gemLogger)
}

func createLoggers() (mainLogger, hearLogger, gemLogger, httpLogger *log.Logger) {
	logLevel := log.DebugLevel

	logger.SetLevel(logLevel)
	logger.SetReportCaller(true)
	logger.SetCallerFormatter(
		func(file string, line int, funcName string) string {
			path, err := filepath.Rel(".", file)
			if err != nil {
				path = file
			}
			return fmt.Sprintf("%s:%d", path, line)
		},
	)

	styles := log.DefaultStyles()
	styles.Prefix = styles.Prefix.MarginTop(1).
		Bold(false).Transform(func(s string) string {
		return strings.TrimSuffix(s, ":")
	})
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Message = styles.Message.Bold(true).Width(24)
	styles.Key = styles.Key.MarginLeft(1).
		Bold(false).
		Foreground(lipgloss.Color("#ff8800"))

	logger.SetStyles(styles)

	mainLogger = logger.With().WithPrefix("main")
	hearLogger = logger.With().WithPrefix("hear")
	gemLogger = logger.With().WithPrefix("gem")
	httpLogger = logger.With().WithPrefix("http")

	return
}
