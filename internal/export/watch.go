package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *slog.Logger
	debounce time.Duration
	onExport func(Result, error)
}

// WithLogger sets the logger Watch reports exports and failures to.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce sets how long changes must settle before re-exporting.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithExportHook registers a function called after every export attempt.
func WithExportHook(fn func(Result, error)) WatchOption {
	return func(c *watchConfig) {
		c.onExport = fn
	}
}

// Watch exports src to dst, then exports again whenever src is written or
// recreated, until ctx is canceled. The directory of src is watched so that
// editors which save by renaming a new file over src are followed. Failed
// exports are logged and do not stop the watch. Watch returns nil when ctx
// is canceled.
func Watch(ctx context.Context, src, dst string, opts Options, wopts ...WatchOption) error {
	cfg := watchConfig{
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range wopts {
		opt(&cfg)
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == absDst {
		return fmt.Errorf("%w: %s", ErrSamePath, src)
	}
	if info, err := os.Stat(absSrc); err != nil {
		return err
	} else if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, src)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(absSrc)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(absSrc), err)
	}

	log := cfg.logger.With("src", src, "dst", dst)
	export := func() {
		res, err := exportFile(ctx, absSrc, dst, opts)
		if err != nil {
			log.Error("export failed", "error", err)
		} else {
			log.Info("exported",
				"id", res.ID,
				"bytes", res.Bytes,
				"charset", res.Charset,
				"newline", res.Newline,
				"duration", res.Duration,
			)
		}
		if cfg.onExport != nil {
			cfg.onExport(res, err)
		}
	}

	export()

	timer := time.NewTimer(cfg.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("watch stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absSrc {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("source changed", "op", event.Op.String())
			timer.Reset(cfg.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)

		case <-timer.C:
			export()
		}
	}
}

// exportFile loads src and saves it to dst.
func exportFile(ctx context.Context, src, dst string, opts Options) (Result, error) {
	buf, err := LoadFile(src)
	if err != nil {
		return Result{}, err
	}
	return SaveFile(ctx, dst, buf, opts)
}
