package stream

import (
	"bytes"
	"errors"
	"io"

	"github.com/dshills/bufstream/internal/encoding/charset"
)

// Option is a functional option for configuring an InputStream.
type Option func(*config)

type config struct {
	newline    NewlineType
	charset    string
	trailing   bool
	chunkSize  int
	bufferSize int
}

// WithNewline sets the line break written for every line break of the
// buffer. The default is NewlineLF.
func WithNewline(n NewlineType) Option {
	return func(c *config) {
		c.newline = n
	}
}

// WithCharset sets the target charset. The default is UTF-8.
func WithCharset(name string) Option {
	return func(c *config) {
		c.charset = name
	}
}

// WithTrailingNewline ends a non-empty buffer with one extra line break.
func WithTrailingNewline(enabled bool) Option {
	return func(c *config) {
		c.trailing = enabled
	}
}

// WithChunkSize sets how much buffer text is converted per step.
func WithChunkSize(size int) Option {
	return func(c *config) {
		c.chunkSize = size
	}
}

// WithConverterBufferSize sets the converter output buffer size.
// A size <= 0 selects the converter default.
func WithConverterBufferSize(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// InputStream reads a TextBuffer as bytes in a target charset with a fixed
// newline type. It implements io.ReadCloser.
type InputStream struct {
	rw      *Rewriter
	conv    *charset.Converter
	charset string
	newline NewlineType

	pending bytes.Buffer
	opened  bool
	eof     bool
	closed  bool
	err     error
}

// New creates an InputStream over buf. The conversion session is opened by
// the first Read, so an unsupported charset is reported there.
func New(buf TextBuffer, opts ...Option) *InputStream {
	cfg := config{
		newline:    NewlineLF,
		charset:    charset.UTF8,
		chunkSize:  DefaultChunkSize,
		bufferSize: -1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &InputStream{
		rw: NewRewriter(buf, cfg.newline,
			WithRewriterChunkSize(cfg.chunkSize),
			WithImplicitTrailingNewline(cfg.trailing),
		),
		conv:    charset.NewConverter(cfg.bufferSize),
		charset: cfg.charset,
		newline: cfg.newline,
	}
}

// Charset returns the target charset, canonicalised once the stream has
// been read from.
func (s *InputStream) Charset() string {
	if s.opened {
		return s.conv.To()
	}
	return s.charset
}

// Newline returns the newline type written by the stream.
func (s *InputStream) Newline() NewlineType {
	return s.newline
}

// Read reads up to len(p) converted bytes. It returns io.EOF once the
// whole buffer has been delivered. A conversion failure is returned as an
// error matching charset.ErrUnsupportedCharset or charset.ErrInvalidEncoding
// and is returned again by every later Read.
func (s *InputStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.err != nil {
		return 0, s.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for s.pending.Len() == 0 {
		if s.eof {
			return 0, io.EOF
		}
		if err := s.fill(); err != nil {
			s.err = err
			s.pending.Reset()
			return 0, err
		}
	}
	return s.pending.Read(p)
}

// fill converts one more chunk of buffer text into the pending queue.
func (s *InputStream) fill() error {
	if !s.opened {
		if err := s.conv.Open(s.charset, charset.UTF8); err != nil {
			return err
		}
		s.opened = true
	}

	chunk, err := s.rw.Next()
	if errors.Is(err, io.EOF) {
		s.eof = true
		return s.conv.Close(&s.pending)
	}
	if err != nil {
		return err
	}
	return s.conv.Feed(&s.pending, chunk)
}

// Close releases the conversion session. Bytes not yet read are dropped.
func (s *InputStream) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.pending.Reset()

	if s.opened && !s.eof {
		// Abandoned before the end; whatever the converter holds back is
		// discarded along with the unread text.
		_ = s.conv.Close(io.Discard)
	}
	return nil
}
