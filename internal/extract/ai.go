package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/invisible-growth/leadfinder/internal/model"
	"github.com/invisible-growth/leadfinder/pkg/openai"
)

// Mode selects what the AI fallback is asked to extract.
type Mode string

const (
	ModeName    Mode = "name"
	ModeCompany Mode = "company"
	ModeBoth    Mode = "both"
)

const (
	defaultAIMaxChars  = 8000
	defaultAIMaxTokens = 150
)

const (
	namePrompt    = `You are a data extraction assistant. Extract ONLY the person's full name from this LinkedIn profile text. Return valid JSON: {"name": "First Last"}`
	companyPrompt = `You are a data extraction assistant. Extract ONLY the person's CURRENT company name from this LinkedIn profile text. Return valid JSON: {"company": "Company Name"}`
	bothPrompt    = `You are a data extraction assistant. Extract the person's full name and CURRENT company from this LinkedIn profile text. Return valid JSON: {"name": "First Last", "company": "Company Name"}`
)

// AIExtractor reads page text with a chat model when selector extraction
// fails. Model output passes through the same validators as scraped text, so
// a hallucinated value is dropped rather than resolved.
type AIExtractor struct {
	client    openai.Client
	maxChars  int
	maxTokens int
}

func NewAI(client openai.Client, maxChars, maxTokens int) *AIExtractor {
	if maxChars <= 0 {
		maxChars = defaultAIMaxChars
	}
	if maxTokens <= 0 {
		maxTokens = defaultAIMaxTokens
	}
	return &AIExtractor{client: client, maxChars: maxChars, maxTokens: maxTokens}
}

type aiPayload struct {
	Name    string `json:"name"`
	Company string `json:"company"`
}

// Extract asks the model for the fields mode selects. Deterministic output
// is wanted, so temperature is pinned to zero and the response is forced to
// a JSON object.
func (a *AIExtractor) Extract(ctx context.Context, pageText string, mode Mode) (model.ExtractionResult, error) {
	if a.client == nil {
		return model.ExtractionResult{}, eris.New("extract: AI extraction is not configured")
	}

	prompt := bothPrompt
	switch mode {
	case ModeName:
		prompt = namePrompt
	case ModeCompany:
		prompt = companyPrompt
	}

	content := pageText
	if len(content) > a.maxChars {
		content = content[:a.maxChars]
	}

	temperature := 0.0
	maxTokens := a.maxTokens
	resp, err := a.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.client.Model(),
		Messages: []openai.Message{
			{Role: "system", Content: prompt},
			{Role: "user", Content: content},
		},
		ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
		Temperature:    &temperature,
		MaxTokens:      &maxTokens,
	})
	if err != nil {
		return model.ExtractionResult{}, eris.Wrap(err, "extract: AI completion failed")
	}
	if len(resp.Choices) == 0 {
		return model.ExtractionResult{}, eris.New("extract: AI returned no choices")
	}

	var payload aiPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return model.ExtractionResult{}, eris.Wrap(err, "extract: AI returned malformed JSON")
	}

	var result model.ExtractionResult
	if name := strings.TrimSpace(payload.Name); IsValidPersonName(name) {
		result.PersonName = name
	} else if name != "" {
		zap.L().Warn("extract: AI name failed validation", zap.String("name", name))
	}
	if company := SanitizeCompany(payload.Company); IsValidCompanyName(company) {
		result.CompanyName = company
	} else if payload.Company != "" {
		zap.L().Warn("extract: AI company failed validation", zap.String("company", payload.Company))
	}

	return result, nil
}
