// Package gemini provides a client for the Gemini generative language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

// Config represents Gemini client configuration.
type Config struct {
	APIKey string
	Model  string
}

// Client is a Gemini API client.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// New creates a new Gemini client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
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
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	u := c.baseURL + "/models/" + c.model + ":generateContent?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(reqBody))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response")
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", errors.Wrap(err, "failed to decode response")
	}

	if resp.StatusCode != http.StatusOK {
		if gr.Error != nil {
			return "", errors.Newf("gemini api error %d: %s", gr.Error.Code, gr.Error.Message)
		}
		return "", errors.Newf("unexpected status %d", resp.StatusCode)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}
