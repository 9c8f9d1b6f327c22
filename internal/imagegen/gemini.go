package imagegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const enhanceInstruction = `You are an interior designer looking at the attached room photo.
Rewrite the image generation prompt below so the furniture placement matches this room's layout, perspective and lighting.
Keep every furniture item and the style requirements. Respond with the rewritten prompt only, no commentary.

Prompt:
`

// GeminiEnhancer tailors prompts to the uploaded room using a vision model
type GeminiEnhancer struct {
	apiKey string
	model  string
}

func NewGeminiEnhancer(cfg config.GeminiConfig) *GeminiEnhancer {
	return &GeminiEnhancer{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (e *GeminiEnhancer) IsConfigured() bool {
	return e.apiKey != ""
}

func (e *GeminiEnhancer) Model() string {
	if e.model != "" {
		return e.model
	}
	return "gemini-1.5-flash"
}

func (e *GeminiEnhancer) Enhance(ctx context.Context, image []byte, contentType, prompt string) (string, error) {
	if !e.IsConfigured() {
		return "", fmt.Errorf("gemini enhancer is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(e.Model())
	var temperature float32 = 0.4
	model.Temperature = &temperature

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(contentType), image),
		genai.Text(enhanceInstruction+prompt),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// imageFormat maps a MIME type to the short format genai.ImageData expects
func imageFormat(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpeg"
	}
}
