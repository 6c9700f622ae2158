package setup

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"voicetracker/config"
)

func TestValues(t *testing.T) {
	got := Answers{APIKey: " key ", Model: "gemini-2.5-pro", ExportDir: ""}.Values()
	if len(got) != 2 {
		t.Fatalf("Values() = %v", got)
	}
	if got[config.KeyGeminiAPIKey] != "key" || got[config.KeyGeminiModel] != "gemini-2.5-pro" {
		t.Errorf("Values() = %v", got)
	}
}

func TestValuesSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.Save(path, Answers{APIKey: "k", Model: "gemini-2.5-flash", ExportDir: "out"}.Values()); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	if cfg := config.Load(v); cfg.GeminiAPIKey != "k" || cfg.ExportDir != "out" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestModelOptions(t *testing.T) {
	if got := modelOptions("gemini-2.5-flash"); len(got) != len(models) {
		t.Errorf("known model added twice: %v", got)
	}
	got := modelOptions("gemini-exp")
	if len(got) != len(models)+1 || got[0] != "gemini-exp" {
		t.Errorf("modelOptions(custom) = %v", got)
	}
	if err := required("API key")("  "); err == nil {
		t.Error("blank key accepted")
	}
}
