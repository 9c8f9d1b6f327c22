package worker

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TaskGenerateImage = "design:generate_image"
	TaskPurgeSessions = "design:purge_sessions"
)

// GeneratePayload is the body of an async generation task
type GeneratePayload struct {
	SessionID      string   `json:"session_id"`
	FurnitureLinks []string `json:"furniture_links,omitempty"`
	Prompt         string   `json:"prompt,omitempty"`
	Regenerate     bool     `json:"regenerate,omitempty"`
}

func NewGenerateTask(p GeneratePayload) (*asynq.Task, error) {
	if p.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TaskGenerateImage, body), nil
}

func NewPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskPurgeSessions, nil)
}

func decodeGenerate(t *asynq.Task) (GeneratePayload, error) {
	var p GeneratePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if p.SessionID == "" {
		return p, fmt.Errorf("invalid %s payload: missing session id: %w", t.Type(), asynq.SkipRetry)
	}
	return p, nil
}
