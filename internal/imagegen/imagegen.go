package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNoStrategies is returned when a generator was built without any strategy
var ErrNoStrategies = errors.New("no image generation strategy configured")

// Request describes a single room render
type Request struct {
	RoomImage   []byte
	ContentType string
	Prompt      string
	Theme       string
	Style       string
	Furniture   []string
}

// Result is the first successful render
type Result struct {
	Image       []byte
	ContentType string
	Model       string
	Prompt      string
	Duration    time.Duration
}

// Input is what a strategy receives after prompt construction
type Input struct {
	Image          []byte
	ContentType    string
	Prompt         string
	NegativePrompt string
}

// Strategy renders furniture into a room photo
type Strategy interface {
	// Name returns the model identifier
	Name() string

	// Render returns the raw bytes of the generated image
	Render(ctx context.Context, in Input) ([]byte, error)
}

// PromptEnhancer rewrites a prompt using the room photo as context
type PromptEnhancer interface {
	Enhance(ctx context.Context, image []byte, contentType, prompt string) (string, error)
}

// AllFailedError carries every strategy failure of one Generate call
type AllFailedError struct {
	Err error
}

func (e *AllFailedError) Error() string {
	return "all image generation strategies failed: " + e.Err.Error()
}

func (e *AllFailedError) Unwrap() error {
	return e.Err
}

// Generator tries strategies in order until one succeeds
type Generator struct {
	strategies   []Strategy
	enhancer     PromptEnhancer
	maxFurniture int
}

// Option configures a Generator
type Option func(*Generator)

// WithEnhancer sets an optional prompt enhancer
func WithEnhancer(e PromptEnhancer) Option {
	return func(g *Generator) {
		g.enhancer = e
	}
}

// WithMaxFurniture caps how many furniture names go into the prompt
func WithMaxFurniture(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxFurniture = n
		}
	}
}

// NewGenerator creates a generator over an ordered strategy list
func NewGenerator(strategies []Strategy, opts ...Option) *Generator {
	g := &Generator{
		strategies:   strategies,
		maxFurniture: DefaultMaxFurniture,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Strategies returns the strategy names in fallback order
func (g *Generator) Strategies() []string {
	names := make([]string, len(g.strategies))
	for i, s := range g.strategies {
		names[i] = s.Name()
	}
	return names
}

// Generate renders the request with the first strategy that succeeds
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if len(req.RoomImage) == 0 {
		return nil, errors.New("room image is empty")
	}
	if len(g.strategies) == 0 {
		return nil, ErrNoStrategies
	}

	prompt := BuildPrompt(req.Style, req.Furniture, req.Prompt, g.maxFurniture)
	if g.enhancer != nil {
		enhanced, err := g.enhancer.Enhance(ctx, req.RoomImage, req.ContentType, prompt)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("prompt enhancement failed, using base prompt")
		case enhanced != "":
			prompt = enhanced
		}
	}

	in := Input{
		Image:          req.RoomImage,
		ContentType:    req.ContentType,
		Prompt:         prompt,
		NegativePrompt: NegativePrompt,
	}

	var errs []error
	for _, s := range g.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		data, err := s.Render(ctx, in)
		if err == nil && len(data) == 0 {
			err = errors.New("empty image")
		}
		if err != nil {
			log.Warn().Err(err).Str("model", s.Name()).Msg("image strategy failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}

		elapsed := time.Since(start)
		log.Info().
			Str("model", s.Name()).
			Dur("duration", elapsed).
			Int("bytes", len(data)).
			Msg("image generated")

		return &Result{
			Image:       data,
			ContentType: http.DetectContentType(data),
			Model:       s.Name(),
			Prompt:      prompt,
			Duration:    elapsed,
		}, nil
	}

	return nil, &AllFailedError{Err: errors.Join(errs...)}
}
