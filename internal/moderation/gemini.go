package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

const classifyPrompt = `You are a content moderator for a clothing swap platform.
Review the following item listing and decide if it is acceptable.

Flag the listing if it contains any of the following:
- profanity or offensive language
- spam phrasing or repeated promotional text
- content unrelated to clothing or accessories
- gibberish or meaningless text
- advertisements for other services
- anything unsafe or illegal
- text that looks copied from another listing

Title: %s
Description: %s

Reply only with one word: FLAG or OK.`

// GeminiClassifier classifies listing text with the Gemini REST API.
type GeminiClassifier struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGeminiClassifier returns a classifier backed by the given model, for
// example "gemini-2.0-flash". Requests time out after the given duration.
func NewGeminiClassifier(apiKey, model string, timeout time.Duration) *GeminiClassifier {
	return &GeminiClassifier{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *GeminiClassifier) Classify(ctx context.Context, title, description string) (Verdict, error) {
	prompt := fmt.Sprintf(classifyPrompt, title, description)

	payload, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return VerdictOK, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return VerdictOK, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return VerdictOK, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return VerdictOK, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return VerdictOK, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	answer := strings.ToUpper(strings.TrimSpace(text))

	switch {
	case strings.HasPrefix(answer, "FLAG"):
		return VerdictFlag, nil
	case strings.HasPrefix(answer, "OK"):
		return VerdictOK, nil
	default:
		return VerdictOK, fmt.Errorf("unexpected classifier answer %q", text)
	}
}
