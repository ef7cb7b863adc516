// Package watcher runs conversions automatically as extraction documents
// appear in a drop directory.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"lectern/internal/logging"
)

// settleDelay lets a file finish writing before it is picked up. Extraction
// documents are written in one pass, but over network mounts the create and
// final write can arrive seconds apart.
const settleDelay = 2 * time.Second

// Handler converts one extraction document.
type Handler func(ctx context.Context, path string) error

// Watcher converts extraction documents as they land in a directory.
type Watcher struct {
	dir     string
	handler Handler
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New builds a Watcher over dir. handler is invoked once per settled file.
func New(dir string, handler Handler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		dir:     dir,
		handler: handler,
		logger:  logging.NewComponentLogger(logger, "watcher"),
		pending: make(map[string]*time.Timer),
	}
}

// Watch blocks until ctx is cancelled, converting each new .json file that
// appears under the watched directory.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching for extraction documents", logging.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			w.drainTimers()
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !eligible(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

// schedule arms (or re-arms) the settle timer for path; repeated writes to
// the same file keep pushing the conversion back until the file goes quiet.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.logger.Info("converting new document", logging.String("file", filepath.Base(path)))
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error("conversion failed", logging.String("file", filepath.Base(path)), logging.Error(err))
		}
	})
}

func (w *Watcher) drainTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// artifactName matches the pipeline's own output documents, which carry a
// language code and timestamp suffix (for example lecture_tr_20240101_120000.json).
var artifactName = regexp.MustCompile(`_[a-z]{2,3}(?:-[a-z0-9]{2,8})?_\d{8}_\d{6}(?:_with_audio)?\.json$`)

// eligible filters for extraction documents, skipping the pipeline's own
// staged artifacts.
func eligible(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if !strings.HasSuffix(name, ".json") {
		return false
	}
	if artifactName.MatchString(name) || strings.HasSuffix(name, "_with_audio.json") {
		return false
	}
	return !strings.HasPrefix(name, ".")
}
