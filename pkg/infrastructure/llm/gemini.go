package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when COACH_MODEL is not set.
const DefaultModel = "gemini-flash-latest"

// GeminiResponder implements intake.Responder with the Gemini API.
type GeminiResponder struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// Options configures a GeminiResponder. BaseURL and HTTPClient are only
// needed to point the client at a test server.
type Options struct {
	APIKey       string
	Model        string
	SystemPrompt string
	BaseURL      string
	HTTPClient   *http.Client
}

func NewGeminiResponder(ctx context.Context, opts Options) (*GeminiResponder, error) {
	if opts.APIKey == "" && opts.HTTPClient == nil {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	config := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiResponder{
		client:       client,
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
	}, nil
}

func (r *GeminiResponder) Respond(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if r.systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(r.systemPrompt, genai.RoleUser)
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
