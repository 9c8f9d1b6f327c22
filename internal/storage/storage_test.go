package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/storage"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func TestDetectImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ct   string
		ext  string
		ok   bool
	}{
		{"png", pngHeader, "image/png", ".png", true},
		{"jpeg", jpegHeader, "image/jpeg", ".jpg", true},
		{"text", []byte("hello world"), "", "", false},
		{"empty", nil, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ext, err := storage.DetectImage(tt.data)
			if !tt.ok {
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ct, ct)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestKeyGenerator(t *testing.T) {
	keys, err := storage.NewKeyGenerator()
	require.NoError(t, err)

	a := keys.Key(storage.FolderRooms, ".png")
	b := keys.Key(storage.FolderRooms, ".png")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^rooms/\d{8}/\d+\.png$`), a)
}

func TestLocalStorageRoundTrip(t *testing.T) {
	keys, err := storage.NewKeyGenerator()
	require.NoError(t, err)

	s, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files", keys, time.Second)
	require.NoError(t, err)

	url, err := s.Store(context.Background(), pngHeader, storage.FolderGenerated)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/files/generated/"))

	data, err := s.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	_, err = s.Store(context.Background(), []byte("not an image"), storage.FolderRooms)
	assert.Error(t, err)

	_, err = s.Fetch(context.Background(), "http://localhost:8080/files/../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalStorageFetchRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(jpegHeader)
	}))
	defer srv.Close()

	keys, err := storage.NewKeyGenerator()
	require.NoError(t, err)
	s, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files", keys, time.Second)
	require.NoError(t, err)

	data, err := s.Fetch(context.Background(), srv.URL+"/room.jpg")
	require.NoError(t, err)
	assert.Equal(t, jpegHeader, data)

	_, err = s.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}
