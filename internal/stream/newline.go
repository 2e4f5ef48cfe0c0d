package stream

import (
	"fmt"
	"strings"
)

// NewlineType is the byte sequence written for each line break.
type NewlineType uint8

const (
	NewlineLF   NewlineType = iota // Unix: \n
	NewlineCR                      // Old Mac: \r
	NewlineCRLF                    // Windows: \r\n
)

// String returns the name of the newline type.
func (n NewlineType) String() string {
	switch n {
	case NewlineLF:
		return "lf"
	case NewlineCR:
		return "cr"
	case NewlineCRLF:
		return "crlf"
	default:
		return fmt.Sprintf("NewlineType(%d)", uint8(n))
	}
}

// Sequence returns the actual line break characters.
func (n NewlineType) Sequence() string {
	switch n {
	case NewlineCR:
		return "\r"
	case NewlineCRLF:
		return "\r\n"
	default:
		return "\n"
	}
}

// ParseNewline parses "lf", "cr" or "crlf" (case-insensitive).
func ParseNewline(s string) (NewlineType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lf", "unix":
		return NewlineLF, nil
	case "cr", "mac":
		return NewlineCR, nil
	case "crlf", "windows", "dos":
		return NewlineCRLF, nil
	}
	return NewlineLF, fmt.Errorf("%w: %q", ErrUnknownNewline, s)
}

// terminatorBuffer is implemented by buffers that remember which line
// break followed each line.
type terminatorBuffer interface {
	TextBuffer
	LineTerminator(line uint32) string
}

// DetectNewline returns the most common line break in buf. Buffers that do
// not record their line breaks, and buffers without any, report NewlineLF.
func DetectNewline(buf TextBuffer) NewlineType {
	tb, ok := buf.(terminatorBuffer)
	if !ok {
		return NewlineLF
	}

	var lf, cr, crlf int
	count := tb.LineCount()
	for line := uint32(0); line+1 < count; line++ {
		switch tb.LineTerminator(line) {
		case "\n":
			lf++
		case "\r":
			cr++
		case "\r\n":
			crlf++
		}
	}

	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return NewlineCRLF
	case cr > lf:
		return NewlineCR
	default:
		return NewlineLF
	}
}
