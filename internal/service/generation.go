package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
	"github.com/Rrens/room-designer/internal/imagegen"
	"github.com/Rrens/room-designer/internal/storage"
	"github.com/Rrens/room-designer/internal/worker"
)

// defaultGenerateItems is how many search results are used when no links are given
const defaultGenerateItems = 5

type GenerateInput struct {
	Prompt         string   `json:"prompt"`
	FurnitureLinks []string `json:"furniture_links"`
}

type GenerateResult struct {
	Image            domain.GeneratedImage  `json:"image"`
	GeneratedURL     string                 `json:"generated_image_url"`
	OriginalImageURL string                 `json:"original_image_url"`
	Furniture        []domain.FurnitureItem `json:"furniture_items"`
}

// Generate renders the selected furniture into the room photo
func (s *DesignService) Generate(ctx context.Context, id string, in GenerateInput) (*GenerateResult, error) {
	snap, err := s.snapshot(ctx, id, domain.StepUpload, domain.StepTheme, domain.StepSearch)
	if err != nil {
		return nil, err
	}
	items, err := selectFurniture(snap.SearchResults, in.FurnitureLinks)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, snap, in.Prompt, items)
}

// Regenerate renders again with a new prompt using every search result
func (s *DesignService) Regenerate(ctx context.Context, id, prompt string) (*GenerateResult, error) {
	snap, err := s.snapshot(ctx, id, domain.StepSearch)
	if err != nil {
		return nil, err
	}
	if err := snap.Require(domain.StepUpload, domain.StepTheme); err != nil {
		return nil, err
	}
	return s.generate(ctx, snap, prompt, snap.SearchResults)
}

func (s *DesignService) generate(ctx context.Context, snap *domain.Session, prompt string, items []domain.FurnitureItem) (*GenerateResult, error) {
	start := time.Now()

	room, err := s.storage.Fetch(ctx, snap.RoomImageURL)
	if err != nil {
		return nil, domain.External("storage", err)
	}
	contentType, _, err := storage.DetectImage(room)
	if err != nil {
		return nil, domain.External("storage", err)
	}

	style := ""
	if t, ok := s.catalog.Theme(snap.Theme); ok {
		style = t.Style
	}

	names := make([]string, len(items))
	links := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
		links[i] = it.Link
	}

	res, err := s.generator.Generate(ctx, imagegen.Request{
		RoomImage:   room,
		ContentType: contentType,
		Prompt:      prompt,
		Theme:       snap.Theme,
		Style:       style,
		Furniture:   names,
	})
	if err != nil {
		return nil, domain.External("image generation", err)
	}

	url, err := s.storage.Store(ctx, res.Image, storage.FolderGenerated)
	if err != nil {
		return nil, domain.External("storage", err)
	}

	img := domain.GeneratedImage{
		URL:             url,
		Prompt:          res.Prompt,
		Model:           res.Model,
		FurnitureLinks:  links,
		DurationSeconds: domain.Round2(time.Since(start).Seconds()),
		CreatedAt:       s.now(),
	}

	if _, err := s.mutate(ctx, snap.ID, func(sess *domain.Session) error {
		sess.GeneratedImages = append(sess.GeneratedImages, img)
		return nil
	}); err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", snap.ID).
		Str("model", img.Model).
		Float64("duration_seconds", img.DurationSeconds).
		Msg("design image generated")
	s.publish(ctx, events.ImageGenerated, snap.ID, map[string]any{"url": url, "model": img.Model})

	return &GenerateResult{
		Image:            img,
		GeneratedURL:     url,
		OriginalImageURL: snap.RoomImageURL,
		Furniture:        items,
	}, nil
}

// GenerateAsync validates the request and queues it for the background worker
func (s *DesignService) GenerateAsync(ctx context.Context, id string, in GenerateInput) (string, error) {
	if s.queue == nil {
		return "", ErrUnavailable
	}

	snap, err := s.snapshot(ctx, id, domain.StepUpload, domain.StepTheme, domain.StepSearch)
	if err != nil {
		return "", err
	}
	if _, err := selectFurniture(snap.SearchResults, in.FurnitureLinks); err != nil {
		return "", err
	}

	taskID, err := s.queue.EnqueueGenerate(ctx, worker.GeneratePayload{
		SessionID:      id,
		FurnitureLinks: in.FurnitureLinks,
		Prompt:         in.Prompt,
	})
	if err != nil {
		return "", err
	}

	log.Info().Str("session_id", id).Str("task_id", taskID).Msg("generation queued")
	return taskID, nil
}

// TaskStatus reports the state of a queued generation
func (s *DesignService) TaskStatus(ctx context.Context, taskID string) (*worker.TaskStatus, error) {
	if s.queue == nil {
		return nil, ErrUnavailable
	}
	return s.queue.Status(ctx, taskID)
}

// GenerateFromTask runs a queued generation on the worker
func (s *DesignService) GenerateFromTask(ctx context.Context, p worker.GeneratePayload) (*domain.GeneratedImage, error) {
	var (
		res *GenerateResult
		err error
	)
	if p.Regenerate {
		res, err = s.Regenerate(ctx, p.SessionID, p.Prompt)
	} else {
		res, err = s.Generate(ctx, p.SessionID, GenerateInput{Prompt: p.Prompt, FurnitureLinks: p.FurnitureLinks})
	}
	if err != nil {
		return nil, err
	}
	return &res.Image, nil
}

// selectFurniture picks search results by link, in request order.
// With no links the cheapest results are used.
func selectFurniture(results []domain.FurnitureItem, links []string) ([]domain.FurnitureItem, error) {
	if len(links) == 0 {
		n := min(len(results), defaultGenerateItems)
		return results[:n], nil
	}

	byLink := make(map[string]domain.FurnitureItem, len(results))
	for _, it := range results {
		byLink[it.Link] = it
	}

	var (
		out     []domain.FurnitureItem
		unknown []string
	)
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		if seen[l] {
			continue
		}
		seen[l] = true
		it, ok := byLink[l]
		if !ok {
			unknown = append(unknown, l)
			continue
		}
		out = append(out, it)
	}

	if len(unknown) > 0 {
		return nil, domain.NewValidationError("furniture_links", "not in search results: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

var _ worker.Processor = (*DesignService)(nil)
