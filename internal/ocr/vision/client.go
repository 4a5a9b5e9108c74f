// Package vision implements the OCR text source backed by the Google Cloud
// Vision images:annotate REST endpoint.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"billdex/internal/config"
	"billdex/internal/domain"
)

const defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// Client calls the Vision TEXT_DETECTION API for single images. It satisfies
// port.TextSource.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a Vision client from config. An empty endpoint uses the
// public Google API; tests point it at a local server.
func NewClient(cfg config.OCRConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    imagePayload `json:"image"`
	Features []feature    `json:"features"`
}

type imagePayload struct {
	Content string `json:"content"`
}

type feature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText sends one image for text detection and returns the full page
// text. Returns domain.ErrNoTextExtracted when the provider finds nothing.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	payload := annotateRequest{
		Requests: []annotateEntry{{
			Image:    imagePayload{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []feature{{Type: "TEXT_DETECTION"}},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling annotate request: %w", err)
	}

	url := c.endpoint
	if c.apiKey != "" {
		url += "?key=" + c.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating annotate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling vision api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading vision response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision api returned status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var parsed annotateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decoding vision response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return "", domain.ErrNoTextExtracted
	}

	r := parsed.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision api error %d: %s", r.Error.Code, r.Error.Message)
	}

	// The first annotation carries the whole page; fall back to the
	// structured block text when it is absent.
	if len(r.TextAnnotations) > 0 && r.TextAnnotations[0].Description != "" {
		return r.TextAnnotations[0].Description, nil
	}
	if r.FullTextAnnotation.Text != "" {
		return r.FullTextAnnotation.Text, nil
	}
	return "", domain.ErrNoTextExtracted
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
