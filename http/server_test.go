package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voicetracker/capture"
	"voicetracker/transcription"
)

type fakeGenerator struct {
	reply string
	err   error

	audio    []byte
	mimeType string
}

func (f *fakeGenerator) Generate(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.audio, f.mimeType = audio, mimeType
	return f.reply, f.err
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleAI(t *testing.T) {
	gen := &fakeGenerator{reply: `{"transcription":"x"}`}
	s := NewServer(gen, 0, nil)

	audio := base64.StdEncoding.EncodeToString([]byte("RIFF"))
	rec := post(t, s, `{"audio":"`+audio+`","mimeType":"audio/wav"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp transcription.ProxyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply != gen.reply {
		t.Errorf("reply = %q", resp.Reply)
	}
	if string(gen.audio) != "RIFF" || gen.mimeType != "audio/wav" {
		t.Errorf("generator got %q %q", gen.audio, gen.mimeType)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing request id")
	}
}

func TestHandleAIBadRequest(t *testing.T) {
	tests := map[string]string{
		"not json":      `audio=abc`,
		"bad base64":    `{"audio":"%%%"}`,
		"missing audio": `{"mimeType":"audio/wav"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{}
			rec := post(t, NewServer(gen, 0, nil), body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d", rec.Code)
			}
			if gen.audio != nil {
				t.Error("generator called for a bad request")
			}
		})
	}
}

func TestHandleAIModelError(t *testing.T) {
	s := NewServer(&fakeGenerator{err: errors.New("quota exceeded")}, 0, nil)
	audio := base64.StdEncoding.EncodeToString([]byte("RIFF"))
	rec := post(t, s, `{"audio":"`+audio+`"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp transcription.ProxyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply != "Error processing audio" || resp.Error != "quota exceeded" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := NewServer(&fakeGenerator{reply: "{}"}, 0, nil)
	post(t, s, `{"audio":"`+base64.StdEncoding.EncodeToString([]byte("x"))+`"}`)

	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `voicetracker_proxy_requests_total{status="200"} 1`) {
		t.Errorf("metrics missing request counter:\n%s", body)
	}
}

// The transcription client and the server agree on the wire format.
func TestClientAgainstServer(t *testing.T) {
	reply := `{"transcription":"aaloo 200, petrol 500","translation":"potatoes 200, petrol 500",` +
		`"expenses":[{"item":"aaloo","amount":200,"category":"Food & Vegetables"},` +
		`{"item":"petrol","amount":500,"category":"Transportation"}],"totalAmount":0,"currency":"INR"}`
	srv := httptest.NewServer(NewServer(&fakeGenerator{reply: reply}, 0, nil))
	defer srv.Close()

	client := transcription.NewClient(transcription.Config{
		Mode:     transcription.ModeProxy,
		ProxyURL: srv.URL + "/api/ai",
	}, nil, nil)
	report, err := client.Submit(context.Background(), capture.Clip{Data: []byte("RIFF"), MIMEType: "audio/wav"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if report.TotalAmount != 700 || len(report.Expenses) != 2 {
		t.Errorf("report = %+v", report)
	}
}
