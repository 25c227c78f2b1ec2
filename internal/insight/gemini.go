package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second
)

// GeminiGenerator calls the Generative Language REST API. The first attempt
// requests a JSON response; if it fails for any reason the call is retried
// exactly once as a plain-text request before the error is surfaced.
type GeminiGenerator struct {
	apiKey  string
	model   string
	client  *http.Client
	timeout time.Duration
}

// NewGeminiGenerator creates a generator. Model defaults to gemini-2.0-flash
// and timeout to 60s when zero values are given.
func NewGeminiGenerator(apiKey, model string, timeout time.Duration) *GeminiGenerator {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GeminiGenerator{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// GenerateTeam produces up to maxCards team-wide insight cards.
func (g *GeminiGenerator) GenerateTeam(ctx context.Context, payload TeamPayload, maxCards int) ([]Card, error) {
	prompt, err := buildTeamPrompt(payload, maxCards)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, prompt, maxCards)
}

// GenerateUser produces up to maxCards insight cards for one user.
func (g *GeminiGenerator) GenerateUser(ctx context.Context, payload UserPayload, maxCards int) ([]Card, error) {
	prompt, err := buildUserPrompt(payload, maxCards)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, prompt, maxCards)
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string, maxCards int) ([]Card, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	text, err := g.call(ctx, prompt, true)
	if err != nil {
		// One retry through the plain-text transport, then give up.
		text, err = g.call(ctx, prompt, false)
		if err != nil {
			return nil, err
		}
	}

	return parseCards(text, maxCards)
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

// geminiResponse is the subset of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// call performs one generateContent request and returns the response text.
func (g *GeminiGenerator) call(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if jsonMode {
		reqBody.GenerationConfig = &generationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.3,
		}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no text")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// rawCard is the JSON shape the model is asked to emit.
type rawCard struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Metric      string  `json:"metric,omitempty"`
	ChangeRate  float64 `json:"change_rate,omitempty"`
}

// parseCards extracts the JSON array embedded anywhere in the response text
// and converts it to cards. Any parse failure is a generator failure.
func parseCards(text string, maxCards int) ([]Card, error) {
	arr, err := extractJSONArray(text)
	if err != nil {
		return nil, err
	}

	var raw []rawCard
	if err := json.Unmarshal([]byte(arr), &raw); err != nil {
		return nil, fmt.Errorf("parsing insight array: %w", err)
	}

	if len(raw) > maxCards {
		raw = raw[:maxCards]
	}

	cards := make([]Card, 0, len(raw))
	for _, r := range raw {
		cards = append(cards, Card{
			Type:        normalizeType(r.Type),
			Title:       r.Title,
			Description: r.Description,
		})
	}
	return cards, nil
}

// extractJSONArray returns the substring bounded by the first '[' and the
// last ']' in text.
func extractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("response did not contain a JSON array")
	}
	return text[start : end+1], nil
}

func buildTeamPrompt(payload TeamPayload, maxCards int) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	return fmt.Sprintf(`Analyze the following team usage data and return %d insights as JSON.

Insight types:
- TREND_UP: increasing trend (metric name, change rate %%, reason)
- TREND_DOWN: decreasing trend (same fields)
- POWER_USER: identify the heaviest users
- USECASE_INSIGHT: dominant usage patterns

Output format:
[
  { "type": "TREND_UP", "title": "Title", "description": "Detail", "metric": "metric name", "change_rate": 0 }
]

Data:
%s`, maxCards, data), nil
}

func buildUserPrompt(payload UserPayload, maxCards int) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	return fmt.Sprintf(`Analyze the following per-user usage data and return %d insights as JSON.

Insight types:
- TREND_UP: tools or features this user is using more
- TREND_DOWN: tools or features this user is using less
- USECASE_INSIGHT: usage patterns specific to this user, with improvement suggestions

Output format:
[
  { "type": "TREND_UP", "title": "Title", "description": "Detail, including suggestions" }
]

User data:
%s`, maxCards, data), nil
}
