package transcription

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"voicetracker/capture"
)

type fakeGenerator struct {
	reply string
	err   error
	calls atomic.Int32
	delay time.Duration
}

func (g *fakeGenerator) Generate(ctx context.Context, audio []byte, mimeType string) (string, error) {
	g.calls.Add(1)
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.reply, g.err
}

func factoryFor(g *fakeGenerator, built *atomic.Int32) Factory {
	return func(context.Context, Config) (Generator, error) {
		if built != nil {
			built.Add(1)
		}
		return g, nil
	}
}

var testClip = capture.Clip{Data: []byte("RIFF"), MIMEType: "audio/wav"}

func TestSubmitOverridesTotal(t *testing.T) {
	gen := &fakeGenerator{reply: `{
		"transcription": "pachas hazaar ka laptop",
		"translation": "laptop for fifty thousand",
		"expenses": [{"item": "laptop", "amount": 50000, "category": "Electronics"}],
		"totalAmount": 49000,
		"currency": "INR"
	}`}
	client := NewClient(Config{APIKey: "key"}, factoryFor(gen, nil), nil)

	report, err := client.Submit(context.Background(), testClip)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if report.TotalAmount != 50000 {
		t.Errorf("TotalAmount = %v, want 50000", report.TotalAmount)
	}
	if len(report.Expenses) != 1 || report.Expenses[0].Item != "laptop" {
		t.Errorf("Expenses = %+v", report.Expenses)
	}
}

func TestSubmitMissingCredential(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}
	var built atomic.Int32
	client := NewClient(Config{}, factoryFor(gen, &built), nil)

	_, err := client.Submit(context.Background(), testClip)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Submit() error = %v, want configuration error", err)
	}
	if built.Load() != 0 || gen.calls.Load() != 0 {
		t.Error("backend was used without a credential")
	}
}

func TestSubmitProxyMissingURL(t *testing.T) {
	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer server.Close()

	client := NewClient(Config{Mode: ModeProxy, APIKey: "ignored"}, nil, nil)
	_, err := client.Submit(context.Background(), testClip)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Submit() error = %v, want configuration error", err)
	}
	if hit {
		t.Error("proxy was contacted")
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name     string
		gen      *fakeGenerator
		expected error
	}{
		{"Empty reply", &fakeGenerator{reply: "  "}, ErrMalformedResponse},
		{"Invalid JSON", &fakeGenerator{reply: "not json"}, ErrMalformedResponse},
		{"Network", &fakeGenerator{err: errors.New("connection reset")}, ErrTransport},
		{"Remote", &fakeGenerator{err: ErrMalformedResponse}, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(Config{APIKey: "key"}, factoryFor(tt.gen, nil), nil)
			_, err := client.Submit(context.Background(), testClip)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Submit() error = %v, want %v", err, tt.expected)
			}
			if tt.gen.calls.Load() != 1 {
				t.Errorf("generator called %d times, want 1", tt.gen.calls.Load())
			}
		})
	}
}

func TestSubmitTimeout(t *testing.T) {
	gen := &fakeGenerator{delay: time.Second}
	client := NewClient(Config{APIKey: "key", Timeout: 10 * time.Millisecond}, factoryFor(gen, nil), nil)

	_, err := client.Submit(context.Background(), testClip)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Submit() error = %v, want transport error", err)
	}
}

func TestBackendBuiltOnce(t *testing.T) {
	gen := &fakeGenerator{reply: `{"transcription":"","translation":"","expenses":[],"totalAmount":0,"currency":"INR"}`}
	var built atomic.Int32
	client := NewClient(Config{APIKey: "key"}, factoryFor(gen, &built), nil)

	for i := 0; i < 3; i++ {
		if _, err := client.Submit(context.Background(), testClip); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	if built.Load() != 1 {
		t.Errorf("backend built %d times, want 1", built.Load())
	}
}
