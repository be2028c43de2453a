// Package ollama is a small client for the Ollama generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sterrysx/gymai/internal/telemetry/tracing"
)

const (
	DefaultURL   = "http://localhost:11434"
	DefaultModel = "qwen2.5:32b"
)

var ErrEmptyResponse = errors.New("empty model response")

type GenerateRequest struct {
	Model   string  `json:"model"`
	System  string  `json:"system,omitempty"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

type Options struct {
	Temperature float64 `json:"temperature"`
}

type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient expects an http client with its own timeout, e.g. one using the otelhttp transport.
func NewClient(baseURL, model string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Generate sends a non-streaming generate request and returns the trimmed reply.
func (c *Client) Generate(ctx context.Context, system, prompt string, temperature float64) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ollama.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("model", c.model))
	span.SetAttributes(attribute.Float64("temperature", temperature))

	reqBody, err := json.Marshal(GenerateRequest{
		Model:   c.model,
		System:  system,
		Prompt:  prompt,
		Stream:  false,
		Options: Options{Temperature: temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(respBytes, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	reply := strings.TrimSpace(genResp.Response)
	if reply == "" {
		return "", ErrEmptyResponse
	}
	log.Tracef("ollama: %s replied with %d chars", c.model, len(reply))
	return reply, nil
}

// Complete generates without a system prompt.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	return c.Generate(ctx, "", prompt, temperature)
}
