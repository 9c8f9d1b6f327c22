package imagegen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/imagegen"
)

func replicateConfig(url string) config.GenerationConfig {
	return config.GenerationConfig{
		ReplicateToken:  "r8_test",
		ReplicateURL:    url,
		PollInterval:    time.Millisecond,
		DownloadTimeout: 5 * time.Second,
	}
}

func TestReplicateStrategy_PollsUntilSucceeded(t *testing.T) {
	var polls atomic.Int32
	var created map[string]any

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/predictions":
			assert.Equal(t, "Bearer r8_test", r.Header.Get("Authorization"))
			assert.Equal(t, "wait", r.Header.Get("Prefer"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "p1",
				"status": "starting",
				"urls":   map[string]string{"get": srv.URL + "/predictions/p1"},
			})
		case r.URL.Path == "/predictions/p1":
			status := "processing"
			var output any
			if polls.Add(1) >= 2 {
				status = "succeeded"
				output = []string{srv.URL + "/out.png"}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "p1",
				"status": status,
				"output": output,
				"urls":   map[string]string{"get": srv.URL + "/predictions/p1"},
			})
		case r.URL.Path == "/out.png":
			_, _ = w.Write(pngHeader)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	strategies := imagegen.NewReplicateClient(replicateConfig(srv.URL)).Strategies()
	require.Len(t, strategies, 3)
	assert.Equal(t, "adirik/interior-design", strategies[0].Name())

	out, err := strategies[0].Render(context.Background(), imagegen.Input{
		Image:          []byte("jpeg-bytes"),
		ContentType:    "image/jpeg",
		Prompt:         "a sofa",
		NegativePrompt: "blurry",
	})
	require.NoError(t, err)
	assert.Equal(t, pngHeader, out)
	assert.EqualValues(t, 2, polls.Load())

	assert.Equal(t, imagegen.InteriorDesignModel.Version, created["version"])
	input := created["input"].(map[string]any)
	assert.Equal(t, "a sofa", input["prompt"])
	assert.Equal(t, "blurry", input["negative_prompt"])
	assert.EqualValues(t, 30, input["num_inference_steps"])
	assert.True(t, strings.HasPrefix(input["image"].(string), "data:image/jpeg;base64,"))
}

func TestReplicateStrategy_SingleOutputURL(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img" {
			_, _ = w.Write(pngHeader)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "p2",
			"status": "succeeded",
			"output": srv.URL + "/img",
		})
	}))
	defer srv.Close()

	s := imagegen.NewReplicateClient(replicateConfig(srv.URL)).Strategies(imagegen.HoughModel)[0]
	out, err := s.Render(context.Background(), imagegen.Input{Image: []byte("x"), Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, pngHeader, out)
}

func TestReplicateStrategy_Failures(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		cfg := replicateConfig("http://127.0.0.1:0")
		cfg.ReplicateToken = ""
		s := imagegen.NewReplicateClient(cfg).Strategies()[0]

		_, err := s.Render(context.Background(), imagegen.Input{Image: []byte("x")})
		assert.ErrorContains(t, err, "not configured")
	})

	t.Run("api error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid version", http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		s := imagegen.NewReplicateClient(replicateConfig(srv.URL)).Strategies()[0]
		_, err := s.Render(context.Background(), imagegen.Input{Image: []byte("x")})
		assert.ErrorContains(t, err, "status 422")
	})

	t.Run("prediction failed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "p3",
				"status": "failed",
				"error":  "CUDA out of memory",
			})
		}))
		defer srv.Close()

		s := imagegen.NewReplicateClient(replicateConfig(srv.URL)).Strategies()[0]
		_, err := s.Render(context.Background(), imagegen.Input{Image: []byte("x")})
		assert.ErrorContains(t, err, "CUDA out of memory")
	})
}

func TestGenerator_OverReplicateFallsThrough(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img" {
			_, _ = w.Write(pngHeader)
			return
		}
		var body struct {
			Version string `json:"version"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Version == imagegen.InteriorDesignModel.Version {
			http.Error(w, "model unavailable", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p4", "status": "succeeded", "output": []string{srv.URL + "/img"}})
	}))
	defer srv.Close()

	gen := imagegen.NewGenerator(imagegen.NewReplicateClient(replicateConfig(srv.URL)).Strategies())
	res, err := gen.Generate(context.Background(), imagegen.Request{RoomImage: []byte("room"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "jagilley/controlnet-hough", res.Model)
}
