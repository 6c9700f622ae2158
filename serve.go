package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"voicetracker/config"
	"voicetracker/gemini"
	vhttp "voicetracker/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Gemini proxy",
	Long: `Serves POST /api/ai so that clients without a Gemini key can submit
recordings. The key stays on the server.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8787, "Port to run the HTTP server on")
	viper.BindPFlag(config.KeyHTTPPort, serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) {
	mainLogger, _, gemLogger, httpLogger := createLoggers()
	cfg := config.Load(viper.GetViper())

	if cfg.GeminiAPIKey == "" {
		mainLogger.Fatal("missing GEMINI_API_KEY or --gemini-api-key=")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := gemini.New(ctx, gemini.Options{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.Temperature,
	}, gemLogger)
	if err != nil {
		mainLogger.Fatal("create gemini client", "error", err)
	}
	defer extractor.Close()

	srv := vhttp.NewServer(extractor, cfg.Timeout, httpLogger)
	if err := vhttp.Serve(ctx, cfg.HTTPPort, srv, httpLogger); err != nil {
		mainLogger.Fatal("Failed to start server", "error", err)
	}
}
