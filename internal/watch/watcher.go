package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/svgjww/viewer/internal/document"
)

// burstDelay is how long the watcher waits after the last event of a burst
// before reloading. Editors often write a file as chmod, write, chmod.
const burstDelay = 16 * time.Millisecond

// Watcher reloads one document file whenever it changes on disk and
// publishes the result on a Hub.
type Watcher struct {
	path  string
	hub   *Hub
	parse document.ParseFunc
	fw    *fsnotify.Watcher
}

// NewWatcher watches the directory holding path, so that editors which
// replace the file by rename are still followed. parse turns the file into
// parser JSON; nil means the file already is parser JSON.
func NewWatcher(path string, hub *Hub, parse document.ParseFunc) (*Watcher, error) {
	if parse == nil {
		parse = document.PassThrough
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, hub: hub, parse: parse, fw: fw}, nil
}

func (w *Watcher) Path() string { return w.path }

// Reload reads, parses and validates the document, then publishes either the
// parser JSON or the failure.
func (w *Watcher) Reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		err = fmt.Errorf("read %s: %w", filepath.Base(w.path), err)
		w.hub.PublishError(err)
		return err
	}
	out, err := document.Run(w.parse, data)
	if err == nil {
		_, err = document.Decode(out)
	}
	if err != nil {
		w.hub.PublishError(err)
		return err
	}
	w.hub.PublishDocument(out)
	return nil
}

// Run publishes the current document and then follows changes until ctx
// ends or the file watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	slog.Info("watching document", "path", w.path)
	if err := w.Reload(); err != nil {
		slog.Warn("initial load failed", "path", w.path, "error", err)
	}

	burst := time.NewTimer(0)
	<-burst.C
	pending := false

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			slog.Debug("file system event", "event", ev.String())
			pending = true
			burst.Reset(burstDelay)

		case <-burst.C:
			if !pending {
				continue
			}
			pending = false
			slog.Info("detected change, reloading", "path", w.path)
			if err := w.Reload(); err != nil {
				slog.Warn("reload failed", "path", w.path, "error", err)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			slog.Error("fsnotify error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
