package buffer

import (
	"errors"
	"io"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// paragraphSeparator is U+2029 encoded as UTF-8.
const paragraphSeparator = "\u2029"

// lineSpan locates one line inside the buffer text.
type lineSpan struct {
	start int // offset of the first byte of the line
	end   int // offset just past the last content byte
	term  int // length of the line break after end, 0 for the last line
}

// Buffer holds editable text and a line index over it.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lines      []lineSpan
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		lines:      indexLines(""),
		revisionID: NewRevisionID(),
	}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.text = s
	b.lines = indexLines(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// LineCount returns the number of lines. It is never less than one.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lines))
}

// LineText returns the text of a specific line (without its line break).
// Out of range lines return the empty string.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineText(b.text, b.lines, line)
}

// LineTerminator returns the line break that follows line, or "" for the
// last line and for out of range lines.
func (b *Buffer) LineTerminator(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineTerminator(b.text, b.lines, line)
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text) == 0
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Write Operations

// SetText replaces the whole buffer content.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replaceLocked(0, len(b.text), s)
}

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > ByteOffset(len(b.text)) {
		return 0, ErrOffsetOutOfRange
	}

	b.replaceLocked(int(offset), int(offset), text)
	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(len(b.text)) {
		return ErrRangeInvalid
	}

	b.replaceLocked(int(start), int(end), "")
	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(len(b.text)) {
		return 0, ErrRangeInvalid
	}

	b.replaceLocked(int(start), int(end), text)
	return start + ByteOffset(len(text)), nil
}

// replaceLocked swaps text[start:end] for s and rebuilds the line index.
// A fresh index slice is always built so snapshots never observe the edit.
func (b *Buffer) replaceLocked(start, end int, s string) {
	b.text = b.text[:start] + s + b.text[end:]
	b.lines = indexLines(b.text)
	b.revisionID = NewRevisionID()
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		text:       b.text, // Strings are immutable, safe to share
		lines:      b.lines,
		revisionID: b.revisionID,
	}
}

// indexLines splits text into lines. Recognised breaks are "\r\n", "\n",
// "\r" and U+2029.
func indexLines(text string) []lineSpan {
	lines := make([]lineSpan, 0, 16)
	start := 0
	for i := 0; i < len(text); {
		term := 0
		switch text[i] {
		case '\n':
			term = 1
		case '\r':
			term = 1
			if i+1 < len(text) && text[i+1] == '\n' {
				term = 2
			}
		case paragraphSeparator[0]:
			if len(text)-i >= len(paragraphSeparator) && text[i:i+len(paragraphSeparator)] == paragraphSeparator {
				term = len(paragraphSeparator)
			}
		}
		if term == 0 {
			i++
			continue
		}
		lines = append(lines, lineSpan{start: start, end: i, term: term})
		i += term
		start = i
	}
	return append(lines, lineSpan{start: start, end: len(text)})
}

func lineText(text string, lines []lineSpan, line uint32) string {
	if int(line) >= len(lines) {
		return ""
	}
	l := lines[line]
	return text[l.start:l.end]
}

func lineTerminator(text string, lines []lineSpan, line uint32) string {
	if int(line) >= len(lines) {
		return ""
	}
	l := lines[line]
	return text[l.end : l.end+l.term]
}
