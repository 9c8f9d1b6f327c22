package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/room-designer/internal/config"
)

const (
	defaultReplicateURL = "https://api.replicate.com/v1"
	maxImageBytes       = 50 << 20
)

// Model is one Replicate model and how to build its input
type Model struct {
	Name    string
	Version string
	Input   func(in Input, image string) map[string]any
}

// InteriorDesignModel is tried first
var InteriorDesignModel = Model{
	Name:    "adirik/interior-design",
	Version: "1b976f591a902eb9f897c7c7df9a681d6c5ebefbc727a618b64bfc2a109609ad",
	Input: func(in Input, image string) map[string]any {
		return map[string]any{
			"image":               image,
			"prompt":              in.Prompt,
			"negative_prompt":     in.NegativePrompt,
			"num_inference_steps": 30,
			"guidance_scale":      7.5,
			"prompt_strength":     0.75,
		}
	},
}

var HoughModel = Model{
	Name:    "jagilley/controlnet-hough",
	Version: "854e8727697a057c525cdb45ab037f64ecca770a1769cc52287c2e56472a247b",
	Input: func(in Input, image string) map[string]any {
		return map[string]any{
			"image":       image,
			"prompt":      in.Prompt,
			"structure":   "hough",
			"num_outputs": 1,
		}
	},
}

var ControlNetModel = Model{
	Name:    "rossjillian/controlnet",
	Version: "795433b19458d0f4fa172a7ccf93178d2adb1cb8ab2ad6c8faecc48a7c47caa5",
	Input: func(in Input, image string) map[string]any {
		return map[string]any{
			"image":       image,
			"prompt":      in.Prompt,
			"num_outputs": 1,
		}
	},
}

// DefaultModels returns the fallback order used in production
func DefaultModels() []Model {
	return []Model{InteriorDesignModel, HoughModel, ControlNetModel}
}

// ReplicateClient talks to the Replicate predictions API
type ReplicateClient struct {
	token        string
	baseURL      string
	pollInterval time.Duration
	client       *http.Client
	download     *http.Client
}

// NewReplicateClient creates a client from generation config
func NewReplicateClient(cfg config.GenerationConfig) *ReplicateClient {
	baseURL := strings.TrimRight(cfg.ReplicateURL, "/")
	if baseURL == "" {
		baseURL = defaultReplicateURL
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	downloadTimeout := cfg.DownloadTimeout
	if downloadTimeout <= 0 {
		downloadTimeout = 120 * time.Second
	}

	return &ReplicateClient{
		token:        cfg.ReplicateToken,
		baseURL:      baseURL,
		pollInterval: poll,
		client:       &http.Client{Timeout: 120 * time.Second},
		download:     &http.Client{Timeout: downloadTimeout},
	}
}

// IsConfigured checks if the client has an API token
func (c *ReplicateClient) IsConfigured() bool {
	return c.token != ""
}

// Strategies returns one strategy per model, in order
func (c *ReplicateClient) Strategies(models ...Model) []Strategy {
	if len(models) == 0 {
		models = DefaultModels()
	}
	out := make([]Strategy, len(models))
	for i, m := range models {
		out[i] = &ReplicateStrategy{client: c, model: m}
	}
	return out
}

type predictionRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p *prediction) done() bool {
	switch p.Status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// outputURL handles models that return either a single URL or a list
func (p *prediction) outputURL() (string, error) {
	if len(p.Output) == 0 || string(p.Output) == "null" {
		return "", errors.New("prediction returned no output")
	}

	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
		return single, nil
	}

	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil {
		for _, u := range list {
			if u != "" {
				return u, nil
			}
		}
	}
	return "", fmt.Errorf("unexpected prediction output: %s", string(p.Output))
}

// ReplicateStrategy runs a single Replicate model
type ReplicateStrategy struct {
	client *ReplicateClient
	model  Model
}

func (s *ReplicateStrategy) Name() string {
	return s.model.Name
}

func (s *ReplicateStrategy) Render(ctx context.Context, in Input) ([]byte, error) {
	c := s.client
	if !c.IsConfigured() {
		return nil, errors.New("replicate is not configured (missing API token)")
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(in.Image)
	}
	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(in.Image)

	body, err := json.Marshal(predictionRequest{
		Version: s.model.Version,
		Input:   s.model.Input(in, dataURI),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "wait")

	pred, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	for !pred.done() {
		if pred.URLs.Get == "" {
			return nil, fmt.Errorf("prediction %s is %s without a poll url", pred.ID, pred.Status)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		pollReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pred.URLs.Get, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create poll request: %w", err)
		}
		if pred, err = c.do(pollReq); err != nil {
			return nil, err
		}
	}

	if pred.Status != "succeeded" {
		return nil, fmt.Errorf("prediction %s %s: %v", pred.ID, pred.Status, pred.Error)
	}

	url, err := pred.outputURL()
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, url)
}

func (c *ReplicateClient) do(req *http.Request) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("replicate returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var pred prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &pred, nil
}

func (c *ReplicateClient) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.download.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, errors.New("generated image exceeds size limit")
	}
	return data, nil
}
