package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drawing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entities":[]}`), 0o644))

	h := NewHub("drawing.json", nil)
	w, err := NewWatcher(path, h, nil)
	require.NoError(t, err)
	defer w.fw.Close()

	require.NoError(t, w.Reload())
	assert.Equal(t, TypeDocReload, h.Latest().Type)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Error(t, w.Reload())
	assert.Equal(t, TypeDocError, h.Latest().Type)
	assert.Equal(t, int64(2), h.Latest().Seq)

	require.NoError(t, os.Remove(path))
	assert.Error(t, w.Reload())
	assert.Contains(t, h.Latest().Error.Message, "drawing.json")
}

func TestWatcherFollowsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drawing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1}`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub("drawing.json", nil)
	go h.Run(ctx)
	c := NewClient(h, nil, "viewer")
	require.True(t, h.Register(c))
	assert.Equal(t, TypeWelcome, recv(t, c).Type)

	w, err := NewWatcher(path, h, nil)
	require.NoError(t, err)
	go w.Run(ctx)

	first := recv(t, c)
	assert.Equal(t, TypeDocReload, first.Type)
	assert.JSONEq(t, `{"version":1}`, string(first.Payload))

	// unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2}`), 0o644))

	second := recv(t, c)
	assert.Equal(t, TypeDocReload, second.Type)
	assert.JSONEq(t, `{"version":2}`, string(second.Payload))
}

func TestWatcherReportsParserCrash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.jww")
	require.NoError(t, os.WriteFile(path, []byte("JwwData."), 0o644))

	calls := 0
	parse := func(data []byte) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("")
		}
		return []byte(`{"version":600}`), nil
	}

	h := NewHub("drawing.jww", nil)
	w, err := NewWatcher(path, h, parse)
	require.NoError(t, err)
	defer w.fw.Close()

	assert.Error(t, w.Reload())
	latest := h.Latest()
	assert.Equal(t, TypeDocError, latest.Type)
	assert.Contains(t, latest.Error.Message, "crashed")

	require.NoError(t, w.Reload())
	assert.Equal(t, TypeDocReload, h.Latest().Type)
	assert.JSONEq(t, `{"version":600}`, string(h.Latest().Payload))
}
