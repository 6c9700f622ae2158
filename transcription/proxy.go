package transcription

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ProxyRequest is the body accepted by the server-side proxy.
type ProxyRequest struct {
	Audio    string `json:"audio"`
	MIMEType string `json:"mimeType,omitempty"`
}

type ProxyResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// Proxy forwards recordings to a proxy that holds the model credential.
type Proxy struct {
	url        string
	httpClient *http.Client
}

func NewProxy(url string, httpClient *http.Client) *Proxy {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Proxy{url: url, httpClient: httpClient}
}

func (p *Proxy) Generate(ctx context.Context, audio []byte, mimeType string) (string, error) {
	body, err := json.Marshal(ProxyRequest{
		Audio:    base64.StdEncoding.EncodeToString(audio),
		MIMEType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("encode proxy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read proxy response: %v", ErrTransport, err)
	}

	var out ProxyResponse
	decodeErr := json.Unmarshal(data, &out)

	switch {
	case resp.StatusCode == http.StatusOK:
		if decodeErr != nil {
			return "", fmt.Errorf("%w: proxy response: %v", ErrMalformedResponse, decodeErr)
		}
		return out.Reply, nil
	case resp.StatusCode == http.StatusInternalServerError && decodeErr == nil:
		msg := out.Error
		if msg == "" {
			msg = out.Reply
		}
		return "", fmt.Errorf("%w: proxy: %s", ErrMalformedResponse, msg)
	default:
		return "", fmt.Errorf("%w: proxy status %d: %s", ErrTransport, resp.StatusCode, bytes.TrimSpace(data))
	}
}
