package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maestrodigital/maestro_shop/internal/logging"
	"github.com/maestrodigital/maestro_shop/internal/models"
)

var catalog = []models.Product{
	{Title: "Nocturne in G Minor", Type: models.FileTypeBundle, Price: 15},
	{Title: "Cyberpunk Pulse", Type: models.FileTypeMIDI, Price: 20},
}

func TestAdviseWithoutKeyIsOffDuty(t *testing.T) {
	c := NewClient("", "", logging.New("error"))
	got := c.Advise(context.Background(), "something romantic?", catalog)
	require.Equal(t, offDutyMessage, got)
}

func TestAdviseReturnsModelText(t *testing.T) {
	var gotKey string
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if json.NewDecoder(r.Body).Decode(&req) == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]string{{"text": "Try the Nocturne."}},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, logging.New("error"))
	got := c.Advise(context.Background(), "something romantic?", catalog)
	require.Equal(t, "Try the Nocturne.", got)
	require.Equal(t, "test-key", gotKey)
	require.Contains(t, gotPrompt, "Nocturne in G Minor (BUNDLE, $15.00)")
	require.Contains(t, gotPrompt, "something romantic?")
}

func TestAdviseFallsBackOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, logging.New("error"))
	got := c.Advise(context.Background(), "hello", catalog)
	require.Equal(t, fallbackMessage, got)
}

func TestAdviseFallsBackOnEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, logging.New("error"))
	got := c.Advise(context.Background(), "hello", catalog)
	require.Equal(t, fallbackMessage, got)
}
