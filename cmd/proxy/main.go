// Command proxy runs only the Gemini proxy, for deployments that ship the
// recorder to machines without an API key.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"voicetracker/config"
	"voicetracker/gemini"
	vhttp "voicetracker/http"
)

var rootCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Serve POST /api/ai with the server's Gemini key",
	Run:   run,
}

func init() {
	rootCmd.Flags().IntP("port", "p", 8787, "Port to run the HTTP server on")
	viper.BindPFlag(config.KeyHTTPPort, rootCmd.Flags().Lookup("port"))
}

func run(cmd *cobra.Command, args []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})

	if err := config.Init(viper.GetViper()); err != nil {
		logger.Fatal("read config", "error", err)
	}
	cfg := config.Load(viper.GetViper())
	if cfg.GeminiAPIKey == "" {
		logger.Fatal("missing GEMINI_API_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := gemini.New(ctx, gemini.Options{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.Temperature,
	}, logger.WithPrefix("gem"))
	if err != nil {
		logger.Fatal("create gemini client", "error", err)
	}
	defer extractor.Close()

	httpLogger := logger.WithPrefix("http")
	if err := vhttp.Serve(ctx, cfg.HTTPPort, vhttp.NewServer(extractor, cfg.Timeout, httpLogger), httpLogger); err != nil {
		logger.Fatal("serve", "error", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
