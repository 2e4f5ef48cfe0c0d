package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitExport waits for the next export reported by the hook.
func waitExport(t *testing.T, results <-chan error) error {
	t.Helper()

	select {
	case err := <-results:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for export")
		return nil
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	dst := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(src, []byte("one\ntwo"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := make(chan error, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, src, dst, Options{Newline: "crlf"},
			WithLogger(discardLogger()),
			WithDebounce(50*time.Millisecond),
			WithExportHook(func(_ Result, err error) { results <- err }),
		)
	}()

	if err := waitExport(t, results); err != nil {
		t.Fatalf("initial export failed: %v", err)
	}
	assertFile(t, dst, "one\r\ntwo")

	if err := os.WriteFile(src, []byte("three\nfour"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := waitExport(t, results); err != nil {
		t.Fatalf("export after change failed: %v", err)
	}
	assertFile(t, dst, "three\r\nfour")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestWatchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(src, []byte("ẞ"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := make(chan error, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Watch(ctx, src, filepath.Join(dir, "out.txt"), Options{Charset: "ISO-8859-1"},
			WithLogger(discardLogger()),
			WithExportHook(func(_ Result, err error) { results <- err }),
		)
	}()

	if err := waitExport(t, results); err == nil {
		t.Error("expected the export to fail")
	}
}

func TestWatchArguments(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		src  string
		dst  string
		want error
	}{
		{name: "same path", src: src, dst: src, want: ErrSamePath},
		{name: "directory", src: dir, dst: filepath.Join(dir, "out"), want: ErrIsDirectory},
		{name: "missing", src: filepath.Join(dir, "nope"), dst: filepath.Join(dir, "out"), want: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Watch(context.Background(), tt.src, tt.dst, Options{}, WithLogger(discardLogger()))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", filepath.Base(path), data, want)
	}
}
