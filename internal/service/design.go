package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/capacity"
	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
	"github.com/Rrens/room-designer/internal/imagegen"
	"github.com/Rrens/room-designer/internal/search"
	"github.com/Rrens/room-designer/internal/storage"
	"github.com/Rrens/room-designer/internal/worker"
)

// ErrUnavailable is returned by features that depend on optional infrastructure
var ErrUnavailable = errors.New("feature is not enabled on this server")

// ObjectStorage stores and retrieves room images by URL
type ObjectStorage interface {
	Store(ctx context.Context, data []byte, folder string) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
	Ping(ctx context.Context) error
	Name() string
}

// ImageGenerator renders furniture into a room photo
type ImageGenerator interface {
	Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error)
}

// TaskQueue runs generation in the background
type TaskQueue interface {
	EnqueueGenerate(ctx context.Context, p worker.GeneratePayload) (string, error)
	Status(ctx context.Context, taskID string) (*worker.TaskStatus, error)
}

// CacheFlusher clears cached search results
type CacheFlusher interface {
	FlushAll(ctx context.Context) (int64, error)
}

// DesignService runs the room design workflow
type DesignService struct {
	repo      domain.SessionRepository
	locker    domain.Locker
	catalog   *catalog.Catalog
	storage   ObjectStorage
	searcher  search.Searcher
	generator ImageGenerator
	publisher events.Publisher

	queue          TaskQueue
	searchCache    CacheFlusher
	maxPercentage  float64
	maxUploadBytes int
	lockTimeout    time.Duration
	now            func() time.Time
}

// Option configures optional collaborators and limits
type Option func(*DesignService)

func WithTaskQueue(q TaskQueue) Option {
	return func(s *DesignService) { s.queue = q }
}

func WithSearchCache(c CacheFlusher) Option {
	return func(s *DesignService) { s.searchCache = c }
}

func WithMaxPercentage(pct float64) Option {
	return func(s *DesignService) {
		if pct > 0 {
			s.maxPercentage = pct
		}
	}
}

func WithMaxUploadBytes(n int) Option {
	return func(s *DesignService) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLockTimeout bounds how long a request waits for a busy session
func WithLockTimeout(d time.Duration) Option {
	return func(s *DesignService) { s.lockTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *DesignService) { s.now = now }
}

// NewDesignService creates a new design service
func NewDesignService(
	repo domain.SessionRepository,
	locker domain.Locker,
	cat *catalog.Catalog,
	store ObjectStorage,
	searcher search.Searcher,
	generator ImageGenerator,
	publisher events.Publisher,
	opts ...Option,
) *DesignService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	s := &DesignService{
		repo:           repo,
		locker:         locker,
		catalog:        cat,
		storage:        store,
		searcher:       searcher,
		generator:      generator,
		publisher:      publisher,
		maxPercentage:  capacity.DefaultMaxPercentage,
		maxUploadBytes: 10 << 20,
		lockTimeout:    10 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxPercentage returns the configured occupancy ceiling
func (s *DesignService) MaxPercentage() float64 {
	return s.maxPercentage
}

// UploadResult is returned after a room image is stored
type UploadResult struct {
	SessionID   string `json:"session_id"`
	ImageURL    string `json:"image_url"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
}

// Upload stores the room image and starts a new session
func (s *DesignService) Upload(ctx context.Context, data []byte) (*UploadResult, error) {
	if len(data) > s.maxUploadBytes {
		return nil, domain.NewValidationError("room_image", "file too large, maximum size is %d MB", s.maxUploadBytes>>20)
	}
	contentType, _, err := storage.DetectImage(data)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Store(ctx, data, storage.FolderRooms)
	if err != nil {
		return nil, domain.External("storage", err)
	}

	sess := domain.NewSession(uuid.NewString(), url, s.now())
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Info().Str("session_id", sess.ID).Str("image_url", url).Msg("session created")
	s.publish(ctx, events.SessionCreated, sess.ID, map[string]any{"image_url": url})

	return &UploadResult{
		SessionID:   sess.ID,
		ImageURL:    url,
		ContentType: contentType,
		SizeBytes:   len(data),
	}, nil
}

// SessionView is a session together with its workflow progress
type SessionView struct {
	*domain.Session
	Progress domain.Progress `json:"progress"`
}

// GetSession returns the session and refreshes its idle timer
func (s *DesignService) GetSession(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.mutate(ctx, id, func(*domain.Session) error { return nil })
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: sess, Progress: sess.Progress()}, nil
}

// DeleteSession removes a session and all of its selections
func (s *DesignService) DeleteSession(ctx context.Context, id string) error {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.SessionDeleted, id, nil)
	return nil
}

// mutate loads a session under its lock, applies fn and saves the result.
// The session is not saved when fn fails, so rejected changes leave it untouched.
func (s *DesignService) mutate(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(sess); err != nil {
		return nil, err
	}

	sess.Touch(s.now())
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

func (s *DesignService) lock(ctx context.Context, id string) (func(), error) {
	if s.lockTimeout <= 0 {
		return s.locker.Lock(ctx, id)
	}
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	return s.locker.Lock(lockCtx, id)
}

// snapshot reads a session without locking, for long external calls
func (s *DesignService) snapshot(ctx context.Context, id string, steps ...domain.Step) (*domain.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.Require(steps...); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *DesignService) publish(ctx context.Context, eventType, sessionID string, attrs map[string]any) {
	if err := s.publisher.Publish(ctx, events.New(eventType, sessionID, attrs)); err != nil {
		log.Warn().Err(err).Str("event", eventType).Str("session_id", sessionID).Msg("failed to publish workflow event")
	}
}

// usage returns occupancy of the session's room in percent, 0 when unset
func usage(sess *domain.Session) float64 {
	floor := sess.FloorAreaSqft()
	if floor <= 0 {
		return 0
	}
	return sess.TotalFootprintSqft / floor * 100
}
