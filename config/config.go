package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"voicetracker/transcription"
)

const (
	KeyGeminiAPIKey = "gemini_api_key"
	KeyGeminiModel  = "gemini_model"
	KeyTemperature  = "temperature"
	KeyTimeout      = "timeout"
	KeyProxyURL     = "proxy_url"
	KeyHTTPPort     = "http_port"
	KeySampleRate   = "sample_rate"
	KeyFrameRate    = "frame_rate"
	KeyExportDir    = "export_dir"
	KeyLogFile      = "log_file"
)

type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	Temperature  float32
	Timeout      time.Duration
	ProxyURL     string
	HTTPPort     int
	SampleRate   int
	FrameRate    int
	ExportDir    string
	LogFile      string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyGeminiModel, "gemini-2.5-flash")
	v.SetDefault(KeyTemperature, 0.1)
	v.SetDefault(KeyTimeout, "90s")
	v.SetDefault(KeyHTTPPort, 8787)
	v.SetDefault(KeySampleRate, 16000)
	v.SetDefault(KeyFrameRate, 30)
	v.SetDefault(KeyExportDir, ".")
	v.SetDefault(KeyLogFile, "voicetracker.log")
}

// Init prepares v to read config.yaml from the working directory or the
// user config directory, .env files and the environment. A missing config
// file is not an error.
func Init(v *viper.Viper) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AutomaticEnv()
	// The browser build read its key from VITE_GEMINI_API_KEY.
	v.BindEnv(KeyGeminiAPIKey, "GEMINI_API_KEY", "VITE_GEMINI_API_KEY", "GOOGLE_API_KEY")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func Load(v *viper.Viper) Config {
	return Config{
		GeminiAPIKey: v.GetString(KeyGeminiAPIKey),
		GeminiModel:  v.GetString(KeyGeminiModel),
		Temperature:  float32(v.GetFloat64(KeyTemperature)),
		Timeout:      v.GetDuration(KeyTimeout),
		ProxyURL:     v.GetString(KeyProxyURL),
		HTTPPort:     v.GetInt(KeyHTTPPort),
		SampleRate:   v.GetInt(KeySampleRate),
		FrameRate:    v.GetInt(KeyFrameRate),
		ExportDir:    v.GetString(KeyExportDir),
		LogFile:      v.GetString(KeyLogFile),
	}
}

// Transcription selects proxy mode whenever a proxy URL is configured.
func (c Config) Transcription() transcription.Config {
	mode := transcription.ModeDirect
	if c.ProxyURL != "" {
		mode = transcription.ModeProxy
	}
	return transcription.Config{
		Mode:        mode,
		APIKey:      c.GeminiAPIKey,
		ProxyURL:    c.ProxyURL,
		Model:       c.GeminiModel,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}

// Dir is $HOME/.config/voicetracker.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "voicetracker"), nil
}

// Save writes values into the config file at path, keeping any settings
// already stored there.
func Save(path string, values map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
	for key, value := range values {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
