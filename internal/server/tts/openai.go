// Package tts implements the speech synthesis client over the OpenAI
// /v1/audio/speech endpoint. The provider is treated as an opaque
// text+voice → MP3 bytes service; failures surface directly with no retry.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sc "github.com/starfox1230/memorize/internal/server/config"
)

// Client calls the synthesis provider. It is constructed once at startup and
// reused across requests.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds a provider client from config.
func NewClient(config *sc.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.OpenAIBaseURL, "/"),
		apiKey:  config.OpenAIAPIKey,
		model:   config.TTSModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Synthesize converts text into MP3 bytes using the given provider voice.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model: c.model,
		Input: text,
		Voice: voice,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis API error %d: %s", resp.StatusCode, string(audio))
	}

	return audio, nil
}
