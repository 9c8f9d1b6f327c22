package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Rrens/room-designer/internal/config"
)

// ErrTaskNotFound is returned when a task id is unknown or already evicted
var ErrTaskNotFound = errors.New("task not found")

const (
	generateMaxRetry  = 2
	generateTimeout   = 10 * time.Minute
	generateRetention = 24 * time.Hour
)

// RedisOpt builds the asynq connection from redis config
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// TaskStatus is the externally visible state of a queued task
type TaskStatus struct {
	ID          string          `json:"task_id"`
	Type        string          `json:"type"`
	Queue       string          `json:"queue"`
	State       string          `json:"state"`
	Retried     int             `json:"retried"`
	LastError   string          `json:"last_error,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Client enqueues tasks and inspects their state
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
}

func NewClient(opt asynq.RedisClientOpt, queue string) *Client {
	if queue == "" {
		queue = "default"
	}
	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     queue,
	}
}

// EnqueueGenerate schedules an image generation and returns the task id
func (c *Client) EnqueueGenerate(ctx context.Context, p GeneratePayload) (string, error) {
	task, err := NewGenerateTask(p)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(generateMaxRetry),
		asynq.Timeout(generateTimeout),
		asynq.Retention(generateRetention),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue generation: %w", err)
	}
	return info.ID, nil
}

// Status looks a task up in the generation queue
func (c *Client) Status(ctx context.Context, taskID string) (*TaskStatus, error) {
	info, err := c.inspector.GetTaskInfo(c.queue, taskID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to inspect task: %w", err)
	}

	status := &TaskStatus{
		ID:        info.ID,
		Type:      info.Type,
		Queue:     info.Queue,
		State:     info.State.String(),
		Retried:   info.Retried,
		LastError: info.LastErr,
	}
	if len(info.Result) > 0 && json.Valid(info.Result) {
		status.Result = info.Result
	}
	if !info.CompletedAt.IsZero() {
		completed := info.CompletedAt
		status.CompletedAt = &completed
	}
	return status, nil
}

func (c *Client) Close() error {
	return errors.Join(c.client.Close(), c.inspector.Close())
}
