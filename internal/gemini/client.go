// Package gemini wraps the Google generative-language API behind a small
// text/JSON generation interface with API key rotation.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// ErrNoAPIKeys is returned when the client is constructed without any keys.
var ErrNoAPIKeys = errors.New("gemini: no API keys configured")

// Generator is the generative-text surface consumed by services.
type Generator interface {
	// GenerateText returns the model's plain-text answer to prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateJSON forces a JSON response and returns the raw JSON text,
	// stripped of any markdown fencing the model added anyway.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Client implements Generator over one or more API keys. Free-tier keys hit
// quota limits quickly, so the client rotates to the next key whenever a call
// fails with a quota error and gives up once every key was tried.
type Client struct {
	keys  []string
	model string

	mu       sync.Mutex
	keyIndex int

	// invoke performs one API call with one key; replaced in tests.
	invoke func(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error)
}

// NewClient builds a Client. keys must contain at least one API key.
func NewClient(keys []string, model string) (*Client, error) {
	if len(keys) == 0 {
		return nil, ErrNoAPIKeys
	}
	if model == "" {
		model = defaultModel
	}
	c := &Client{keys: keys, model: model}
	c.invoke = c.callModel
	log.Printf("Gemini client initialized with %d API key(s), model %s", len(keys), model)
	return c, nil
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, false)
}

func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return "", err
	}
	// Some models wrap JSON-mode output in fences regardless.
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text), nil
}

// generate runs the call, rotating keys on quota errors. At most one full
// pass over the key list is attempted.
func (c *Client) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	var lastErr error
	for attempt := 0; attempt < len(c.keys); attempt++ {
		key, index := c.currentKey()

		text, err := c.invoke(ctx, key, prompt, jsonMode)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isQuotaError(err) {
			return "", err
		}
		log.Printf("WARN: Gemini key #%d hit quota limits, rotating (%v)", index+1, err)
		if !c.rotateFrom(index) {
			break // Single key, nowhere to rotate
		}
	}
	return "", fmt.Errorf("all %d gemini API key(s) exhausted: %w", len(c.keys), lastErr)
}

func (c *Client) currentKey() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys[c.keyIndex], c.keyIndex
}

// rotateFrom advances past the failed key. Reports false when there is no
// other key to rotate to. The index check keeps concurrent callers from
// double-rotating on the same failure.
func (c *Client) rotateFrom(failedIndex int) bool {
	if len(c.keys) <= 1 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keyIndex == failedIndex {
		c.keyIndex = (c.keyIndex + 1) % len(c.keys)
	}
	return true
}

// callModel performs a single GenerateContent call with one API key.
func (c *Client) callModel(ctx context.Context, apiKey, prompt string, jsonMode bool) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	var cfg *genai.GenerateContentConfig
	if jsonMode {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// isQuotaError recognizes rate/quota failures worth rotating keys over.
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "Too Many Requests")
}
