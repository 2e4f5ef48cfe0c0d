package stream

import "io"

// DefaultChunkSize is the default upper bound on a Rewriter chunk.
const DefaultChunkSize = 8 * 1024

// TextBuffer is read-only, line-oriented access to Unicode text.
// Every line except the last is followed by a line break; LineText returns
// a line without it.
type TextBuffer interface {
	LineCount() uint32
	LineText(line uint32) string
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter)

// WithRewriterChunkSize bounds the size of each chunk returned by Next.
func WithRewriterChunkSize(size int) RewriterOption {
	return func(r *Rewriter) {
		if size > 0 {
			r.chunkSize = size
		}
	}
}

// WithImplicitTrailingNewline makes the Rewriter end a non-empty buffer
// with one extra line break, for buffers that do not store the final
// newline of the document.
func WithImplicitTrailingNewline(enabled bool) RewriterOption {
	return func(r *Rewriter) {
		r.trailing = enabled
	}
}

// Rewriter produces the text of a buffer with every line break written as
// one NewlineType.
type Rewriter struct {
	buf       TextBuffer
	newline   string
	chunkSize int
	trailing  bool

	line  uint32 // current line
	col   int    // bytes of the current line already produced
	empty bool   // no text produced yet
	done  bool
}

// NewRewriter creates a Rewriter positioned at the start of buf.
func NewRewriter(buf TextBuffer, newline NewlineType, opts ...RewriterOption) *Rewriter {
	r := &Rewriter{
		buf:       buf,
		newline:   newline.Sequence(),
		chunkSize: DefaultChunkSize,
		empty:     true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next chunk of rewritten text. A chunk is at most the
// configured chunk size long, except that a line break is never split; it
// may end in the middle of a line or of a multi-byte character. Next
// returns io.EOF once the buffer is exhausted.
func (r *Rewriter) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	out := make([]byte, 0, r.chunkSize)
	count := r.buf.LineCount()

	for len(out) < r.chunkSize {
		if r.line >= count {
			r.done = true
			break
		}

		room := r.chunkSize - len(out)
		rest := r.buf.LineText(r.line)[r.col:]
		if len(rest) > room {
			out = append(out, rest[:room]...)
			r.col += room
			break
		}
		out = append(out, rest...)
		if len(rest) > 0 {
			r.empty = false
		}

		last := r.line+1 == count
		if !last || (r.trailing && !r.empty) {
			// A newline sequence is never split across chunks.
			if len(r.newline) > r.chunkSize-len(out) && len(out) > 0 {
				r.col += len(rest)
				break
			}
			out = append(out, r.newline...)
			r.empty = false
		}
		r.line++
		r.col = 0
	}

	if len(out) == 0 {
		r.done = true
		return nil, io.EOF
	}
	return out, nil
}

// Position returns the line and byte column of the next byte to produce.
func (r *Rewriter) Position() (line uint32, col int) {
	return r.line, r.col
}
