package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/bufstream/internal/encoding/charset"
	"github.com/dshills/bufstream/internal/engine/buffer"
)

// readAll drains s with reads of at most chunk bytes.
func readAll(t *testing.T, s *InputStream, chunk int) []byte {
	t.Helper()

	var out []byte
	p := make([]byte, chunk)
	for {
		n, err := s.Read(p)
		if n > chunk {
			t.Fatalf("Read returned %d bytes for a %d byte buffer", n, chunk)
		}
		out = append(out, p[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
	}
}

func TestInputStreamConsecutiveReads(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		out     string
		newline NewlineType
	}{
		{name: "empty lf", in: "", out: "", newline: NewlineLF},
		{name: "empty cr", in: "", out: "", newline: NewlineCR},
		{name: "empty crlf", in: "", out: "", newline: NewlineCRLF},
		{
			name:    "lf",
			in:      "hello\nhow\nare\nyou",
			out:     "hello\nhow\nare\nyou\n",
			newline: NewlineLF,
		},
		{
			name:    "cr",
			in:      "hello\nhow\nare\nyou",
			out:     "hello\rhow\rare\ryou\r",
			newline: NewlineCR,
		},
		{
			name:    "crlf",
			in:      "hello\nhow\nare\nyou",
			out:     "hello\r\nhow\r\nare\r\nyou\r\n",
			newline: NewlineCRLF,
		},
		{
			name:    "leading and empty lines",
			in:      "\nfo\nbar\n\nblah\n",
			out:     "\r\nfo\r\nbar\r\n\r\nblah\r\n\r\n",
			newline: NewlineCRLF,
		},
		{
			name:    "leading and empty lines, no final break",
			in:      "\nfo\nbar\n\nblah",
			out:     "\r\nfo\r\nbar\r\n\r\nblah\r\n",
			newline: NewlineCRLF,
		},
		{
			name:    "cr input to lf",
			in:      "\rfo\rbar\r\rblah\r",
			out:     "\nfo\nbar\n\nblah\n\n",
			newline: NewlineLF,
		},
		{
			name:    "crlf input to cr",
			in:      "\r\nfo\r\nbar\r\n\r\nblah\r\n",
			out:     "\rfo\rbar\r\rblah\r\r",
			newline: NewlineCR,
		},
		{
			name:    "multi-byte characters",
			in:      "ÉÉÉÉÉÉÉÉ\nẞẞẞẞ\nÉÉÉÉ",
			out:     "ÉÉÉÉÉÉÉÉ\r\nẞẞẞẞ\r\nÉÉÉÉ\r\n",
			newline: NewlineCRLF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, chunk := range []int{2, 8, 200} {
				buf := buffer.NewBufferFromString(tt.in)
				s := New(buf, WithNewline(tt.newline), WithTrailingNewline(true))

				got := readAll(t, s, chunk)
				if string(got) != tt.out {
					t.Errorf("chunk %d: got %q, want %q", chunk, got, tt.out)
				}
				if err := s.Close(); err != nil {
					t.Errorf("Close failed: %v", err)
				}
			}
		})
	}
}

func TestInputStreamChunkSizeInvariance(t *testing.T) {
	text := "first line ẞ\r\nsecond ÉÉÉ\n\nthird 😀 line\rlast"

	for _, newline := range []NewlineType{NewlineLF, NewlineCR, NewlineCRLF} {
		want := readAll(t, New(buffer.NewBufferFromString(text), WithNewline(newline)), 4096)

		for readSize := 1; readSize <= 64; readSize++ {
			for _, chunkSize := range []int{1, 2, 3, 5, 7, 64} {
				s := New(buffer.NewBufferFromString(text),
					WithNewline(newline),
					WithChunkSize(chunkSize),
					WithConverterBufferSize(8),
				)
				got := readAll(t, s, readSize)
				if !bytes.Equal(got, want) {
					t.Fatalf("%v read %d chunk %d: got %q, want %q", newline, readSize, chunkSize, got, want)
				}
			}
		}
	}
}

func TestInputStreamNewlineRoundTrip(t *testing.T) {
	text := "alpha\r\nbeta\rgamma\n\ndelta ẞ\n"
	buf := buffer.NewBufferFromString(text)

	var lines []string
	for i := uint32(0); i < buf.LineCount(); i++ {
		lines = append(lines, buf.LineText(i))
	}

	for _, newline := range []NewlineType{NewlineLF, NewlineCR, NewlineCRLF} {
		t.Run(newline.String(), func(t *testing.T) {
			got := readAll(t, New(buf, WithNewline(newline)), 16)
			split := strings.Split(string(got), newline.Sequence())
			if diff := cmp.Diff(lines, split); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputStreamEmptyBuffer(t *testing.T) {
	for _, trailing := range []bool{false, true} {
		s := New(buffer.NewBuffer(), WithNewline(NewlineCRLF), WithTrailingNewline(trailing))

		n, err := s.Read(make([]byte, 10))
		if n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("trailing=%v: Read = %d, %v; want 0, EOF", trailing, n, err)
		}
		if err := s.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}
}

func TestInputStreamCharsets(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		charset string
		newline NewlineType
		want    string
	}{
		{
			name:    "iso-8859-15",
			text:    "café\n€",
			charset: "ISO-8859-15",
			newline: NewlineCRLF,
			want:    "caf\xE9\r\n\xA4",
		},
		{
			name:    "utf-16le",
			text:    "a\nb",
			charset: "UTF-16LE",
			newline: NewlineLF,
			want:    "a\x00\n\x00b\x00",
		},
		{
			name:    "windows-1252",
			text:    "naïve\r\n",
			charset: "windows-1252",
			newline: NewlineLF,
			want:    "na\xEFve\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(buffer.NewBufferFromString(tt.text), WithCharset(tt.charset), WithNewline(tt.newline))
			defer s.Close()

			got := readAll(t, s, 3)
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInputStreamCharsetName(t *testing.T) {
	s := New(buffer.NewBufferFromString("x"), WithCharset("iso-8859-15"))
	defer s.Close()

	if s.Charset() != "iso-8859-15" {
		t.Errorf("Charset() before read = %q", s.Charset())
	}
	readAll(t, s, 8)
	if s.Charset() != "ISO-8859-15" {
		t.Errorf("Charset() after read = %q, want ISO-8859-15", s.Charset())
	}
	if s.Newline() != NewlineLF {
		t.Errorf("Newline() = %v, want lf", s.Newline())
	}
}

func TestInputStreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		charset string
		want    error
	}{
		{
			name:    "unsupported charset",
			text:    "text",
			charset: "NO-SUCH-CHARSET",
			want:    charset.ErrUnsupportedCharset,
		},
		{
			name:    "invalid utf-8 in buffer",
			text:    "ok\nbad \251 byte",
			charset: "UTF-8",
			want:    charset.ErrInvalidEncoding,
		},
		{
			name:    "not representable",
			text:    "Straße ẞ",
			charset: "ISO-8859-1",
			want:    charset.ErrInvalidEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(buffer.NewBufferFromString(tt.text), WithCharset(tt.charset))

			_, err := io.ReadAll(s)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			// The stream stays unusable.
			n, err := s.Read(make([]byte, 8))
			if n != 0 || !errors.Is(err, tt.want) {
				t.Errorf("Read after failure = %d, %v", n, err)
			}

			if err := s.Close(); err != nil {
				t.Errorf("Close after failure: %v", err)
			}
		})
	}
}

func TestInputStreamClose(t *testing.T) {
	s := New(buffer.NewBufferFromString(strings.Repeat("line ẞ\n", 100)), WithChunkSize(5))

	// Stop part way, with a multi-byte character held back.
	if _, err := s.Read(make([]byte, 3)); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := s.Read(make([]byte, 3)); !errors.Is(err, ErrClosed) {
		t.Errorf("Read after Close: expected ErrClosed, got %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: expected ErrClosed, got %v", err)
	}
}

func TestInputStreamCloseUnread(t *testing.T) {
	s := New(buffer.NewBufferFromString("never read"))
	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestInputStreamZeroLengthRead(t *testing.T) {
	s := New(buffer.NewBufferFromString("abc"))
	defer s.Close()

	n, err := s.Read(nil)
	if n != 0 || err != nil {
		t.Errorf("Read(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestInputStreamSnapshotIsolation(t *testing.T) {
	buf := buffer.NewBufferFromString("one\ntwo")
	s := New(buf.Snapshot(), WithChunkSize(2))
	defer s.Close()

	first := make([]byte, 2)
	if _, err := io.ReadFull(s, first); err != nil {
		t.Fatalf("ReadFull failed: %v", err)
	}

	buf.SetText("changed completely")

	rest, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if got := string(first) + string(rest); got != "one\ntwo" {
		t.Errorf("got %q, want %q", got, "one\ntwo")
	}
}

func TestInputStreamCopy(t *testing.T) {
	s := New(buffer.NewBufferFromString("a\nb\nc"), WithNewline(NewlineCRLF))
	defer s.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, s); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if out.String() != "a\r\nb\r\nc" {
		t.Errorf("got %q", out.String())
	}
}
