package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage writes objects under a directory and serves them from baseURL.
// It is meant for development and tests.
type LocalStorage struct {
	dir             string
	baseURL         string
	keys            *KeyGenerator
	http            *http.Client
	downloadTimeout time.Duration
}

// NewLocalStorage creates dir if needed; baseURL is the public prefix objects are served under
func NewLocalStorage(dir, baseURL string, keys *KeyGenerator, downloadTimeout time.Duration) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStorage{
		dir:             dir,
		baseURL:         strings.TrimRight(baseURL, "/"),
		keys:            keys,
		http:            &http.Client{},
		downloadTimeout: downloadTimeout,
	}, nil
}

func (s *LocalStorage) Store(ctx context.Context, data []byte, folder string) (string, error) {
	_, ext, err := DetectImage(data)
	if err != nil {
		return "", err
	}
	if len(data) > MaxObjectBytes {
		return "", fmt.Errorf("object exceeds %d bytes", MaxObjectBytes)
	}

	key := s.keys.Key(folder, ext)
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// Fetch reads local objects from disk and downloads anything else over HTTP
func (s *LocalStorage) Fetch(ctx context.Context, url string) ([]byte, error) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return httpFetch(ctx, s.http, url, s.downloadTimeout)
	}

	key := strings.TrimPrefix(url, prefix)
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if rel, err := filepath.Rel(s.dir, path); err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("invalid object key %q", key)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

func (s *LocalStorage) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

// Handler serves stored objects; mount it at the path matching baseURL
func (s *LocalStorage) Handler() http.Handler {
	return http.FileServer(http.Dir(s.dir))
}

func (s *LocalStorage) Name() string { return "local" }
