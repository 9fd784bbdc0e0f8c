package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/remserv/workshop/internal/models"
)

const (
	defaultModel = "gemini-2.5-flash"
	endpoint     = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"
)

// Suggester proposes services for a car based on mileage and the client's
// complaints.
type Suggester interface {
	SuggestServices(ctx context.Context, mileage int, complaints string) ([]models.SuggestedService, error)
}

// GeminiClient calls the Gemini generateContent API and parses the response
// into service suggestions.
type GeminiClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient builds a client with the given API key.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// SuggestServices asks the model for recommended services. The model is
// instructed to answer with a JSON array; fenced code blocks around the JSON
// are tolerated.
func (c *GeminiClient) SuggestServices(ctx context.Context, mileage int, complaints string) ([]models.SuggestedService, error) {
	prompt := fmt.Sprintf(
		"You are an experienced auto repair shop service advisor. "+
			"A car with %d km mileage arrived with the following complaints: %q. "+
			"Suggest services the workshop should offer. "+
			`Respond with only a JSON array of objects with fields "serviceName" and "reason".`,
		mileage, complaints,
	)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion API returned status %d", resp.StatusCode)
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("suggestion API returned no candidates")
	}

	return ParseSuggestions(gen.Candidates[0].Content.Parts[0].Text)
}

// ParseSuggestions extracts the suggestion array from model output, stripping
// a markdown code fence if present.
func ParseSuggestions(text string) ([]models.SuggestedService, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	var suggestions []models.SuggestedService
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return suggestions, nil
}
