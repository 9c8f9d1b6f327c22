package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/domain"
)

// Processor performs the work behind each task type
type Processor interface {
	GenerateFromTask(ctx context.Context, p GeneratePayload) (*domain.GeneratedImage, error)
	PurgeExpired(ctx context.Context) (int, error)
}

// NewMux routes task types to their handlers
func NewMux(p Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskGenerateImage, generateHandler(p))
	mux.HandleFunc(TaskPurgeSessions, purgeHandler(p))
	return mux
}

func generateHandler(p Processor) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		payload, err := decodeGenerate(t)
		if err != nil {
			return err
		}

		img, err := p.GenerateFromTask(ctx, payload)
		if err != nil {
			if permanent(err) {
				return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
			}
			return err
		}

		if rw := t.ResultWriter(); rw != nil {
			body, err := json.Marshal(img)
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			if _, err := rw.Write(body); err != nil {
				log.Warn().Err(err).Str("task_id", rw.TaskID()).Msg("failed to store task result")
			}
		}
		return nil
	}
}

func purgeHandler(p Processor) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int("purged", n).Msg("expired sessions purged")
		}
		return nil
	}
}

// permanent reports errors that retrying cannot fix
func permanent(err error) bool {
	var prereq *domain.PrerequisiteError
	var invalid *domain.ValidationError
	return errors.As(err, &prereq) ||
		errors.As(err, &invalid) ||
		errors.Is(err, domain.ErrSessionNotFound)
}

// Server runs the task processor and the periodic purge scheduler
type Server struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func NewServer(opt asynq.RedisClientOpt, cfg config.WorkerConfig, p Processor) (*Server, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = "default"
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 6, "maintenance": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("type", task.Type()).Msg("task failed")
		}),
	})

	s := &Server{srv: srv, mux: NewMux(p)}

	if cfg.PurgeInterval > 0 {
		s.scheduler = asynq.NewScheduler(opt, nil)
		spec := fmt.Sprintf("@every %s", cfg.PurgeInterval)
		if _, err := s.scheduler.Register(spec, NewPurgeTask(), asynq.Queue("maintenance"), asynq.Unique(cfg.PurgeInterval)); err != nil {
			return nil, fmt.Errorf("failed to register purge schedule: %w", err)
		}
	}
	return s, nil
}

func (s *Server) Start() error {
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			s.srv.Shutdown()
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}
	log.Info().Msg("Background worker started")
	return nil
}

func (s *Server) Shutdown() {
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.srv.Shutdown()
	log.Info().Msg("Background worker stopped")
}
