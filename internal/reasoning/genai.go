// Package reasoning provides the optional generative backend the
// synthesizer delegates evidence interpretation to. The backend is a
// collaborator: callers must treat every error as recoverable and fall
// back to deterministic synthesis.
package reasoning

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Backend accepts a system instruction and a serialized evidence bundle
// and returns free text expected to parse as JSON.
type Backend interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Func adapts a plain function to Backend, mainly for test stubs.
type Func func(ctx context.Context, system, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

const defaultModel = "gemini-2.5-flash"

// GenAI implements Backend on the Google Gemini API.
type GenAI struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGenAI creates a Gemini-backed reasoning backend.
func NewGenAI(ctx context.Context, apiKey, model string, timeout time.Duration) (*GenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAI{client: client, model: model, timeout: timeout}, nil
}

// Complete sends the prompt and returns the raw model text. Each attempt
// is bounded by the configured timeout, with a single retry so a transient
// error or rate-limit blip does not fail a whole batch.
func (g *GenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second):
			}
		}
		text, err := g.generate(ctx, system, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("GenAI completion failed: %w", lastErr)
}

func (g *GenAI) generate(ctx context.Context, system, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
	}

	resp, err := g.client.Models.GenerateContent(callCtx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GenAI returned empty response")
	}
	return text, nil
}
