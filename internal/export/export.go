package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/bufstream/internal/encoding/charset"
	"github.com/dshills/bufstream/internal/engine/buffer"
	"github.com/dshills/bufstream/internal/stream"
)

// Source is anything that can hand out an immutable view of its text.
type Source interface {
	Snapshot() *buffer.Snapshot
}

// Result describes a finished export.
type Result struct {
	ID       uuid.UUID
	Path     string // empty for Write
	Bytes    int64  // bytes written, byte order mark included
	Charset  string // canonical charset name
	Newline  stream.NewlineType
	Revision buffer.RevisionID
	Duration time.Duration
}

// Write exports src to w. The context is checked between chunks; a
// canceled export returns ctx.Err() with part of the output written.
func Write(ctx context.Context, w io.Writer, src Source, opts Options) (Result, error) {
	start := time.Now()
	snap := src.Snapshot()

	res := Result{
		ID:       uuid.New(),
		Revision: snap.RevisionID(),
	}

	name := opts.Charset
	if name == "" {
		name = charset.UTF8
	}
	canonical, err := charset.Canonical(name)
	if err != nil {
		return res, err
	}
	res.Charset = canonical

	newline, err := opts.resolveNewline(snap)
	if err != nil {
		return res, err
	}
	res.Newline = newline

	if opts.BOM {
		if bom := bomFor(canonical); bom != nil {
			n, err := w.Write(bom)
			res.Bytes += int64(n)
			if err != nil {
				return res, fmt.Errorf("writing byte order mark: %w", err)
			}
		}
	}

	in := stream.New(snap,
		stream.WithCharset(name),
		stream.WithNewline(newline),
		stream.WithTrailingNewline(opts.TrailingNewline),
		stream.WithChunkSize(opts.chunkSize()),
		stream.WithConverterBufferSize(opts.ConverterBufferSize),
	)
	defer in.Close()

	p := make([]byte, opts.chunkSize())
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, rerr := in.Read(p)
		if n > 0 {
			written, werr := w.Write(p[:n])
			res.Bytes += int64(written)
			if werr != nil {
				return res, fmt.Errorf("writing output: %w", werr)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return res, rerr
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}

// SaveFile exports src to path. The file is written to a temporary file in
// the same directory and renamed over path, so readers never see a partial
// export. An existing file keeps its permissions.
func SaveFile(ctx context.Context, path string, src Source, opts Options) (res Result, err error) {
	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		if info.IsDir() {
			return res, fmt.Errorf("%w: %s", ErrIsDirectory, path)
		}
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return res, fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	res, err = Write(ctx, tmp, src, opts)
	if err != nil {
		return res, err
	}
	if err = tmp.Chmod(perm); err != nil {
		return res, fmt.Errorf("setting permissions: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return res, fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return res, fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return res, fmt.Errorf("replacing %s: %w", path, err)
	}

	res.Path = path
	return res, nil
}

// LoadFile reads a UTF-8 text file into a new buffer. A leading byte order
// mark is dropped.
func LoadFile(path string) (*buffer.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) && isDir(path) {
			return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
		}
		return nil, err
	}
	data, _ = stripBOM(data)
	return buffer.NewBufferFromString(string(data)), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
