package gemini

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"voicetracker/transcription"
)

func TestResponseSchema(t *testing.T) {
	schema := ResponseSchema()

	required := map[string]bool{}
	for _, name := range schema.Required {
		required[name] = true
	}
	for _, name := range []string{"transcription", "translation", "expenses", "totalAmount", "currency"} {
		if !required[name] {
			t.Errorf("%s should be required", name)
		}
		if schema.Properties[name] == nil {
			t.Errorf("%s has no property schema", name)
		}
	}

	items := schema.Properties["expenses"].Items
	if items == nil || items.Type != genai.TypeObject {
		t.Fatal("expenses should be an array of objects")
	}
	if len(items.Required) != 3 {
		t.Errorf("expense items require %v", items.Required)
	}
	if items.Properties["amount"].Type != genai.TypeNumber {
		t.Error("amount should be a number")
	}
}

func TestGetResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
			{Content: nil},
		},
	}
	if got := getResponseText(resp); got != `{"a":1}` {
		t.Errorf("getResponseText() = %q", got)
	}
}

func TestClassify(t *testing.T) {
	remote := classify(&googleapi.Error{Code: 500, Message: "internal"})
	if !errors.Is(remote, transcription.ErrMalformedResponse) {
		t.Errorf("classify(api error) = %v, want malformed response", remote)
	}

	network := classify(errors.New("dial tcp: connection refused"))
	if !errors.Is(network, transcription.ErrTransport) {
		t.Errorf("classify(network error) = %v, want transport error", network)
	}
}
