// Package advisor calls the external language-model collaborator for the
// storefront's recommendation assistant. Any failure degrades to a fixed
// apologetic string; the chat transcript never sees an error.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maestrodigital/maestro_shop/internal/models"
)

const (
	offDutyMessage  = "The Maestro AI is currently off-duty as the environment key is missing. Please check your configuration."
	fallbackMessage = "I'm having trouble connecting to my musical database right now, but I'd love to help you find the right score soon!"

	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
)

type Client struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
	Log        *slog.Logger
}

func NewClient(apiKey, endpoint string, log *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		APIKey:     apiKey,
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Log:        log,
	}
}

// Advise answers a shopper's question in the context of the current catalog.
// It always returns usable text.
func (c *Client) Advise(ctx context.Context, userMessage string, catalog []models.Product) string {
	if c.APIKey == "" {
		return offDutyMessage
	}

	prompt := fmt.Sprintf(`You are a professional music consultant for a composer's digital store.
The store sells sheet music and MIDI.
Context of current catalog: %s.
User asks: %s.
Provide a helpful, artistic, and encouraging response under 100 words.`,
		catalogContext(catalog), userMessage)

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		c.Log.Error("advisor request encode failed", "error", err)
		return fallbackMessage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(data))
	if err != nil {
		c.Log.Error("advisor request build failed", "error", err)
		return fallbackMessage
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Warn("advisor call failed", "error", err)
		return fallbackMessage
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.Log.Warn("advisor call rejected", "status", resp.Status)
		return fallbackMessage
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.Log.Warn("advisor response decode failed", "error", err)
		return fallbackMessage
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return fallbackMessage
	}
	return parsed.Candidates[0].Content.Parts[0].Text
}

func catalogContext(catalog []models.Product) string {
	entries := make([]string, 0, len(catalog))
	for _, p := range catalog {
		entries = append(entries, fmt.Sprintf("%s (%s, $%.2f)", p.Title, p.Type, p.Price))
	}
	return strings.Join(entries, "; ")
}
