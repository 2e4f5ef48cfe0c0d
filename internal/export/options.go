package export

import (
	"strings"

	"github.com/dshills/bufstream/internal/config"
	"github.com/dshills/bufstream/internal/stream"
)

// Options control how a buffer is exported.
type Options struct {
	// Charset is the target charset. Empty means UTF-8.
	Charset string

	// Newline is "lf", "cr", "crlf" or "auto". Auto uses the line break
	// that is most common in the buffer. Empty means lf.
	Newline string

	// TrailingNewline ends a non-empty buffer with one extra line break.
	TrailingNewline bool

	// BOM writes a byte order mark for UTF-8 and UTF-16 targets.
	BOM bool

	// ChunkSize bounds how much text is converted and written per step.
	ChunkSize int

	// ConverterBufferSize is the converter output buffer size.
	ConverterBufferSize int
}

// FromSettings converts loaded settings to export options.
func FromSettings(s config.Settings) Options {
	return Options{
		Charset:             s.Charset,
		Newline:             s.Newline,
		TrailingNewline:     s.TrailingNewline,
		BOM:                 s.BOM,
		ChunkSize:           s.ChunkSize,
		ConverterBufferSize: s.ConverterBufferSize,
	}
}

// resolveNewline picks the newline type for buf.
func (o Options) resolveNewline(buf stream.TextBuffer) (stream.NewlineType, error) {
	switch {
	case o.Newline == "":
		return stream.NewlineLF, nil
	case strings.EqualFold(o.Newline, config.NewlineAuto):
		return stream.DetectNewline(buf), nil
	default:
		return stream.ParseNewline(o.Newline)
	}
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return stream.DefaultChunkSize
	}
	return o.ChunkSize
}
