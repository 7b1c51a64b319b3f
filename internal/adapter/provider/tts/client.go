package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"

	"github.com/heartmarshall/dicionario-backend/internal/config"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("tts: api key not configured")

// Voice maps a public voice identifier to the provider's voice selection.
type Voice struct {
	ID           string
	LanguageCode string
	Name         string
}

var voices = map[string]Voice{
	"pt-br-x-ana":     {ID: "pt-br-x-ana", LanguageCode: "pt-BR", Name: "pt-BR-Neural2-B"},
	"pt-br-x-ricardo": {ID: "pt-br-x-ricardo", LanguageCode: "pt-BR", Name: "pt-BR-Neural2-C"},
	"pt-pt-x-miguel":  {ID: "pt-pt-x-miguel", LanguageCode: "pt-PT", Name: "pt-PT-Standard-A"},
	"en-us-x-john":    {ID: "en-us-x-john", LanguageCode: "en-US", Name: "en-US-Neural2-F"},
	"en-gb-x-sarah":   {ID: "en-gb-x-sarah", LanguageCode: "en-GB", Name: "en-GB-Neural2-B"},
}

// LookupVoice reports the catalog entry for id.
func LookupVoice(id string) (Voice, bool) {
	v, ok := voices[id]
	return v, ok
}

// Voices returns the catalog identifiers in sorted order.
func Voices() []string {
	ids := make([]string, 0, len(voices))
	for id := range voices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Client calls the Google Cloud Text-to-Speech REST API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from cfg.
func NewClient(cfg config.TTSConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "google_tts"),
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Synthesize renders text with the given voice and returns the audio as a
// data URL. Unknown voice identifiers are rejected before any request.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	voice, ok := voices[voiceID]
	if !ok {
		return "", fmt.Errorf("tts: unknown voice %q", voiceID)
	}

	var payload synthesizeRequest
	payload.Input.Text = text
	payload.Voice.LanguageCode = voice.LanguageCode
	payload.Voice.Name = voice.Name
	payload.AudioConfig.AudioEncoding = "MP3"

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("tts: encode request: %w", err)
	}

	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("tts: parse endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("key", c.apiKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("tts: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "tts request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("tts: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("tts: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			c.log.ErrorContext(ctx, "tts request rejected",
				slog.Int("status", resp.StatusCode),
				slog.String("error", errResp.Error.Message))
			return "", fmt.Errorf("tts: status %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		c.log.ErrorContext(ctx, "tts request rejected", slog.Int("status", resp.StatusCode))
		return "", fmt.Errorf("tts: status %d", resp.StatusCode)
	}

	var out synthesizeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("tts: decode response: %w", err)
	}
	if out.AudioContent == "" {
		return "", fmt.Errorf("tts: empty audio content")
	}

	c.log.DebugContext(ctx, "tts synthesized", slog.String("voice", voiceID), slog.Int("bytes", len(out.AudioContent)))

	return "data:audio/mp3;base64," + out.AudioContent, nil
}
