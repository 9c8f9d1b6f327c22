// Package storage uploads and downloads room images.
package storage

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/Rrens/room-designer/internal/domain"
)

// Folders used by the workflow
const (
	FolderRooms     = "rooms"
	FolderGenerated = "generated"
)

// MaxObjectBytes caps any single stored object.
const MaxObjectBytes = 50 << 20

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DetectImage sniffs data and returns its content type and file extension.
// Only JPEG, PNG and WebP are accepted.
func DetectImage(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", domain.NewValidationError("image", "file is empty")
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", "", domain.NewValidationError("image", "invalid file type %s, please upload a JPEG, PNG or WebP image", contentType)
	}
	return contentType, ext, nil
}

// KeyGenerator builds object keys of the form folder/YYYYMMDD/<snowflake><ext>
type KeyGenerator struct {
	node *snowflake.Node
	now  func() time.Time
}

// NewKeyGenerator derives a snowflake node id from the hostname
func NewKeyGenerator() (*KeyGenerator, error) {
	host, _ := os.Hostname()
	h := fnv.New32a()
	h.Write([]byte(host))

	node, err := snowflake.NewNode(int64(h.Sum32()) & 0x3FF)
	if err != nil {
		return nil, fmt.Errorf("failed to create id node: %w", err)
	}
	return &KeyGenerator{node: node, now: time.Now}, nil
}

// Key returns a new unique key
func (g *KeyGenerator) Key(folder, ext string) string {
	return fmt.Sprintf("%s/%s/%s%s", folder, g.now().UTC().Format("20060102"), g.node.Generate().String(), ext)
}

// httpFetch downloads url with a timeout and a size cap
func httpFetch(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxObjectBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if len(data) > MaxObjectBytes {
		return nil, fmt.Errorf("object at %s exceeds %d bytes", url, MaxObjectBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("object at %s is empty", url)
	}
	return data, nil
}
