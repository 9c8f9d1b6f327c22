package imagegen_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/room-designer/internal/imagegen"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeStrategy struct {
	name  string
	out   []byte
	err   error
	calls int
	seen  imagegen.Input
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Render(_ context.Context, in imagegen.Input) ([]byte, error) {
	f.calls++
	f.seen = in
	return f.out, f.err
}

type fakeEnhancer struct {
	out string
	err error
}

func (f fakeEnhancer) Enhance(context.Context, []byte, string, string) (string, error) {
	return f.out, f.err
}

func TestGenerator_FirstStrategyWins(t *testing.T) {
	first := &fakeStrategy{name: "first", out: pngHeader}
	second := &fakeStrategy{name: "second", out: pngHeader}
	gen := imagegen.NewGenerator([]imagegen.Strategy{first, second})

	res, err := gen.Generate(context.Background(), imagegen.Request{
		RoomImage: []byte("room"),
		Style:     "Scandinavian minimal",
		Furniture: []string{"Oak Sofa"},
	})
	require.NoError(t, err)

	assert.Equal(t, "first", res.Model)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
	assert.Contains(t, first.seen.Prompt, "Scandinavian minimal")
	assert.Contains(t, first.seen.Prompt, "Oak Sofa")
	assert.Equal(t, imagegen.NegativePrompt, first.seen.NegativePrompt)
	assert.Equal(t, first.seen.Prompt, res.Prompt)
}

func TestGenerator_FallsBackInOrder(t *testing.T) {
	first := &fakeStrategy{name: "first", err: errors.New("model offline")}
	second := &fakeStrategy{name: "second"}
	third := &fakeStrategy{name: "third", out: pngHeader}
	gen := imagegen.NewGenerator([]imagegen.Strategy{first, second, third})

	res, err := gen.Generate(context.Background(), imagegen.Request{RoomImage: []byte("room")})
	require.NoError(t, err)

	assert.Equal(t, "third", res.Model)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, []string{"first", "second", "third"}, gen.Strategies())
}

func TestGenerator_AllFailed(t *testing.T) {
	boom := errors.New("boom")
	gen := imagegen.NewGenerator([]imagegen.Strategy{
		&fakeStrategy{name: "a", err: boom},
		&fakeStrategy{name: "b", err: errors.New("quota exceeded")},
	})

	_, err := gen.Generate(context.Background(), imagegen.Request{RoomImage: []byte("room")})
	require.Error(t, err)

	var all *imagegen.AllFailedError
	require.ErrorAs(t, err, &all)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "a: boom")
	assert.Contains(t, err.Error(), "b: quota exceeded")
}

func TestGenerator_Validation(t *testing.T) {
	gen := imagegen.NewGenerator(nil)

	_, err := gen.Generate(context.Background(), imagegen.Request{})
	assert.Error(t, err)

	_, err = gen.Generate(context.Background(), imagegen.Request{RoomImage: []byte("room")})
	assert.ErrorIs(t, err, imagegen.ErrNoStrategies)
}

func TestGenerator_StopsOnCancelledContext(t *testing.T) {
	s := &fakeStrategy{name: "a", out: pngHeader}
	gen := imagegen.NewGenerator([]imagegen.Strategy{s})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, imagegen.Request{RoomImage: []byte("room")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.calls)
}

func TestGenerator_Enhancer(t *testing.T) {
	t.Run("enhanced prompt is used", func(t *testing.T) {
		s := &fakeStrategy{name: "a", out: pngHeader}
		gen := imagegen.NewGenerator([]imagegen.Strategy{s}, imagegen.WithEnhancer(fakeEnhancer{out: "tailored prompt"}))

		res, err := gen.Generate(context.Background(), imagegen.Request{RoomImage: []byte("room")})
		require.NoError(t, err)
		assert.Equal(t, "tailored prompt", s.seen.Prompt)
		assert.Equal(t, "tailored prompt", res.Prompt)
	})

	t.Run("enhancer failure keeps base prompt", func(t *testing.T) {
		s := &fakeStrategy{name: "a", out: pngHeader}
		gen := imagegen.NewGenerator([]imagegen.Strategy{s}, imagegen.WithEnhancer(fakeEnhancer{err: errors.New("down")}))

		_, err := gen.Generate(context.Background(), imagegen.Request{RoomImage: []byte("room")})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(s.seen.Prompt, "Professional interior design photograph"))
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := imagegen.BuildPrompt("", nil, "", 0)

	assert.Contains(t, prompt, "in "+imagegen.DefaultStyle+".")
	assert.Contains(t, prompt, "Furniture to place: "+imagegen.DefaultFurniture+".")
	assert.Contains(t, prompt, "Placement instructions: "+imagegen.DefaultPlacement+".")
	assert.Contains(t, prompt, "magazine-quality interior design photography")
}

func TestBuildPrompt_CapsFurniture(t *testing.T) {
	names := []string{"A", "", "B", "C", "D", "E", "F", "G"}

	prompt := imagegen.BuildPrompt("Japandi", names, "Sofa against the left wall.", 5)

	assert.Contains(t, prompt, "Furniture to place: A, B, C, D, E.")
	assert.NotContains(t, prompt, "E, F")
	assert.Contains(t, prompt, "Placement instructions: Sofa against the left wall.")
	assert.NotContains(t, prompt, "wall..")
}
