package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"voicetracker/capture"
	"voicetracker/expense"
)

var (
	ErrConfiguration     = errors.New("transcription is not configured")
	ErrTransport         = errors.New("transcription request failed")
	ErrMalformedResponse = errors.New("malformed transcription response")
)

// Generator sends one recording to the model and returns its raw reply.
type Generator interface {
	Generate(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type Factory func(ctx context.Context, cfg Config) (Generator, error)

type Mode string

const (
	ModeDirect Mode = "direct"
	ModeProxy  Mode = "proxy"
)

type Config struct {
	Mode        Mode
	APIKey      string
	ProxyURL    string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Validate reports a missing credential for the configured mode.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeProxy:
		if c.ProxyURL == "" {
			return fmt.Errorf("%w: proxy_url is required in proxy mode", ErrConfiguration)
		}
	case ModeDirect, "":
		if c.APIKey == "" {
			return fmt.Errorf("%w: missing GEMINI_API_KEY or --gemini-api-key=", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrConfiguration, c.Mode)
	}
	return nil
}

type Client struct {
	cfg    Config
	direct Factory
	logger *log.Logger

	mu        sync.Mutex
	generator Generator
}

// NewClient builds a client. direct constructs the model backend used in
// direct mode; proxy mode needs no factory.
func NewClient(cfg Config, direct Factory, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &Client{cfg: cfg, direct: direct, logger: logger}
}

// Submit sends clip to the model and returns the validated report. The
// report total is always the sum of its lines.
func (c *Client) Submit(ctx context.Context, clip capture.Clip) (expense.Report, error) {
	gen, err := c.backend(ctx)
	if err != nil {
		return expense.Report{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := gen.Generate(ctx, clip.Data, clip.MIMEType)
	if err != nil {
		if !errors.Is(err, ErrTransport) && !errors.Is(err, ErrMalformedResponse) {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
		c.logger.Error("submit recording", "error", err, "took", time.Since(start))
		return expense.Report{}, err
	}

	report, err := ParseReport(reply)
	if err != nil {
		c.logger.Error("parse reply", "error", err)
		return expense.Report{}, err
	}
	c.logger.Info("report received",
		"items", len(report.Expenses),
		"total", report.TotalAmount,
		"currency", report.Currency,
		"took", time.Since(start),
	)
	return report, nil
}

func (c *Client) backend(ctx context.Context) (Generator, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generator != nil {
		return c.generator, nil
	}

	switch c.cfg.Mode {
	case ModeProxy:
		c.generator = NewProxy(c.cfg.ProxyURL, nil)
	default:
		if c.direct == nil {
			return nil, fmt.Errorf("%w: no model backend", ErrConfiguration)
		}
		gen, err := c.direct(ctx, c.cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		c.generator = gen
	}
	return c.generator, nil
}

// Close releases the model backend if one was created.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if closer, ok := c.generator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
