package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
	"github.com/Rrens/room-designer/internal/imagegen"
	"github.com/Rrens/room-designer/internal/search"
	"github.com/Rrens/room-designer/internal/worker"
)

var pngImage = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

// MockPublisher mocks the events.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e events.WorkflowEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockSearcher mocks the search.Searcher interface
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, q search.Query) ([]domain.FurnitureItem, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FurnitureItem), args.Error(1)
}

// MockGenerator mocks the ImageGenerator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imagegen.Result), args.Error(1)
}

// MockTaskQueue mocks the TaskQueue interface
type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) EnqueueGenerate(ctx context.Context, p worker.GeneratePayload) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockTaskQueue) Status(ctx context.Context, taskID string) (*worker.TaskStatus, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*worker.TaskStatus), args.Error(1)
}

// memStorage keeps stored objects in memory
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failErr error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) Store(ctx context.Context, data []byte, folder string) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("mem://%s/%d", folder, len(s.objects)+1)
	s.objects[url] = append([]byte(nil), data...)
	return url, nil
}

func (s *memStorage) Fetch(ctx context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[url]
	if !ok {
		return nil, fmt.Errorf("object %s not found", url)
	}
	return data, nil
}

func (s *memStorage) Ping(ctx context.Context) error { return s.failErr }

func (s *memStorage) Name() string { return "memory" }
