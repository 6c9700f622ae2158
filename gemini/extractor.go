package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"voicetracker/transcription"
)

// Extractor sends audio to Gemini and returns the raw JSON reply.
type Extractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *log.Logger
}

type Options struct {
	APIKey      string
	Model       string
	Temperature float32
}

func New(ctx context.Context, opts Options, logger *log.Logger) (*Extractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{
		client: client,
		model:  setupGenerativeModel(client, opts),
		logger: logger,
	}, nil
}

func setupGenerativeModel(client *genai.Client, opts Options) *genai.GenerativeModel {
	name := opts.Model
	if name == "" {
		name = DefaultModel
	}
	model := client.GenerativeModel(name)
	model.GenerationConfig.SetTemperature(opts.Temperature)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = ResponseSchema()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(SystemInstruction),
		},
	}
	return model
}

// Generate issues a single request for the given audio.
func (e *Extractor) Generate(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	e.logger.Debug("sending audio",
		"bytes", len(audio),
		"mime", mimeType,
		"prompt", PromptVersion,
	)

	resp, err := e.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: audio},
		genai.Text(UserPrompt),
	)
	if err != nil {
		return "", classify(err)
	}

	text := getResponseText(resp)
	e.logger.Debug("received reply", "chars", len(text))
	return text, nil
}

func (e *Extractor) Close() error {
	return e.client.Close()
}

// NewGenerator adapts New to the transcription client's backend factory.
func NewGenerator(logger *log.Logger) transcription.Factory {
	return func(ctx context.Context, cfg transcription.Config) (transcription.Generator, error) {
		return New(ctx, Options{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}, logger)
	}
}

// classify separates failures reported by the API (blocked content, error
// statuses) from failures to reach it.
func classify(err error) error {
	var (
		blocked *genai.BlockedError
		apiErr  *apierror.APIError
		httpErr *googleapi.Error
	)
	switch {
	case errors.As(err, &blocked), errors.As(err, &apiErr), errors.As(err, &httpErr):
		return fmt.Errorf("%w: %v", transcription.ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", transcription.ErrTransport, err)
	}
}

func getResponseText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
