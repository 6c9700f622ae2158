package gemini

import (
	"github.com/google/generative-ai-go/genai"
)

// PromptVersion identifies the instruction/schema pair below. Bump it
// whenever either changes so replies can be traced to the contract that
// produced them.
const PromptVersion = "2024-11-expense-v1"

const DefaultModel = "gemini-2.5-flash"

const UserPrompt = "Extract all expenses from this audio."

const SystemInstruction = `
You are an expert Indian expense tracker AI.
Listen carefully to mixed Hindi-English speech and do this:
1. Transcribe exactly in Devanagari Hindi + English.
2. Translate to clear English.
3. Extract EVERY expense mentioned.
4. Convert ALL Indian numbers perfectly:
   - "dedh lakh" or "1.5 lakh" → 150000
   - "ek lakh" or "1 lakh" → 100000
   - "pachas hazar" or "50 thousand" → 50000
   - "so rupaye" or "100 ka" → 100
   - "do hazaar" → 2000
5. Categorize properly (Food & Vegetables, Electronics, Transportation, Shopping, Bills & Utilities, Medical, Other).
6. Calculate TOTAL exactly as sum of all amounts.
Return ONLY valid JSON matching the schema.
`

// ResponseSchema constrains replies to the expense report shape.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transcription": {Type: genai.TypeString},
			"translation":   {Type: genai.TypeString},
			"expenses": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"item":     {Type: genai.TypeString},
						"amount":   {Type: genai.TypeNumber},
						"category": {Type: genai.TypeString},
					},
					Required: []string{"item", "amount", "category"},
				},
			},
			"totalAmount": {Type: genai.TypeNumber},
			"currency":    {Type: genai.TypeString},
		},
		Required: []string{"transcription", "translation", "expenses", "totalAmount", "currency"},
	}
}
