package setup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"voicetracker/config"
)

var models = []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.0-flash"}

// Answers holds what the setup form collects.
type Answers struct {
	APIKey    string
	Model     string
	ExportDir string
}

// Run asks for the Gemini credential and preferences and stores them in the
// config file at path.
func Run(path string, current config.Config) error {
	log.Info("Starting voicetracker setup...")

	answers := Answers{
		APIKey:    current.GeminiAPIKey,
		Model:     current.GeminiModel,
		ExportDir: current.ExportDir,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your Google Cloud (Gemini) API Key").
				Password(true).
				Validate(required("API key")).
				Value(&answers.APIKey),
			huh.NewSelect[string]().
				Title("Choose a Gemini model").
				Options(huh.NewOptions(modelOptions(answers.Model)...)...).
				Value(&answers.Model),
			huh.NewInput().
				Title("Directory for CSV exports").
				Value(&answers.ExportDir),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	if err := config.Save(path, answers.Values()); err != nil {
		return err
	}
	log.Info("Configuration saved", "path", path)
	return nil
}

// Values maps the answers onto config keys. Blank answers are left out so
// that saving never clears an existing setting.
func (a Answers) Values() map[string]any {
	values := map[string]any{}
	if v := strings.TrimSpace(a.APIKey); v != "" {
		values[config.KeyGeminiAPIKey] = v
	}
	if v := strings.TrimSpace(a.Model); v != "" {
		values[config.KeyGeminiModel] = v
	}
	if v := strings.TrimSpace(a.ExportDir); v != "" {
		values[config.KeyExportDir] = v
	}
	return values
}

func modelOptions(current string) []string {
	for _, m := range models {
		if m == current {
			return models
		}
	}
	if current == "" {
		return models
	}
	return append([]string{current}, models...)
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}
