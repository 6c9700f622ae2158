package transcription

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProxyGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ProxyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		audio, _ := base64.StdEncoding.DecodeString(req.Audio)
		if string(audio) != "RIFF" || req.MIMEType != "audio/wav" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(ProxyResponse{Reply: `{"ok":true}`})
	}))
	defer server.Close()

	reply, err := NewProxy(server.URL, nil).Generate(context.Background(), []byte("RIFF"), "audio/wav")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != `{"ok":true}` {
		t.Errorf("Generate() = %q", reply)
	}
}

func TestProxyErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"Remote failure", http.StatusInternalServerError, `{"reply":"Error processing audio"}`, ErrMalformedResponse},
		{"Gateway", http.StatusBadGateway, `bad gateway`, ErrTransport},
		{"Garbage", http.StatusOK, `<html>`, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewProxy(server.URL, nil).Generate(context.Background(), []byte("x"), "audio/wav")
			if !errors.Is(err, tt.expected) {
				t.Errorf("Generate() error = %v, want %v", err, tt.expected)
			}
		})
	}

	t.Run("Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewProxy(url, nil).Generate(context.Background(), []byte("x"), "audio/wav")
		if !errors.Is(err, ErrTransport) {
			t.Errorf("Generate() error = %v, want transport error", err)
		}
	})
}

func TestSubmitThroughProxy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ProxyResponse{
			Reply: `{"transcription":"","translation":"","expenses":[{"item":"laptop","amount":50000,"category":"Electronics"}],"totalAmount":49000,"currency":"INR"}`,
		})
	}))
	defer server.Close()

	client := NewClient(Config{Mode: ModeProxy, ProxyURL: server.URL}, nil, nil)
	report, err := client.Submit(context.Background(), testClip)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if report.TotalAmount != 50000 {
		t.Errorf("TotalAmount = %v, want 50000", report.TotalAmount)
	}
}
