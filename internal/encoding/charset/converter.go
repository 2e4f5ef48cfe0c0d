package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/transform"
)

const (
	// DefaultBufferSize is used when NewConverter gets a size <= 0.
	DefaultBufferSize = 8 * 1024

	// MinBufferSize is the smallest output buffer a Converter accepts.
	// Smaller requests are raised to it so one encoded character always fits.
	MinBufferSize = 8
)

type state uint8

const (
	stateIdle state = iota
	stateOpen
	stateFailed
	stateClosed
)

// Converter is one incremental conversion session between two charsets.
type Converter struct {
	out   []byte
	t     transform.Transformer
	tail  []byte
	from  string
	to    string
	state state
	err   error

	// consumed counts source bytes accepted by the transformer.
	consumed int64
}

// NewConverter creates a converter whose emitted chunks are at most
// bufferSize bytes. A bufferSize <= 0 selects DefaultBufferSize.
func NewConverter(bufferSize int) *Converter {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if bufferSize < MinBufferSize {
		bufferSize = MinBufferSize
	}
	return &Converter{out: make([]byte, bufferSize)}
}

// BufferSize returns the maximum size of an emitted chunk.
func (c *Converter) BufferSize() int {
	return len(c.out)
}

// From returns the canonical source charset name once opened.
func (c *Converter) From() string {
	return c.from
}

// To returns the canonical target charset name once opened.
func (c *Converter) To() string {
	return c.to
}

// Open starts a session converting from the charset named from to the
// charset named to.
func (c *Converter) Open(to, from string) error {
	switch c.state {
	case stateClosed:
		return ErrClosed
	case stateOpen, stateFailed:
		return ErrAlreadyOpen
	}

	srcEnc, fromName, err := Lookup(from)
	if err != nil {
		return fmt.Errorf("source charset: %w", err)
	}
	dstEnc, toName, err := Lookup(to)
	if err != nil {
		return fmt.Errorf("target charset: %w", err)
	}

	// UTF-8 input is validated rather than decoded: x/text decoders replace
	// malformed input instead of reporting it.
	steps := make([]transform.Transformer, 0, 2)
	if fromName == UTF8 {
		steps = append(steps, utf8Validator{})
	} else {
		steps = append(steps, srcEnc.NewDecoder())
	}
	if toName != UTF8 {
		steps = append(steps, dstEnc.NewEncoder())
	}

	if len(steps) == 1 {
		c.t = steps[0]
	} else {
		c.t = transform.Chain(steps...)
	}
	c.from = fromName
	c.to = toName
	c.state = stateOpen
	return nil
}

// Feed converts p, prefixed by any sequence held back by the previous call,
// and writes the result to w in chunks of at most BufferSize bytes. A
// trailing incomplete sequence is held back for the next Feed or Close.
func (c *Converter) Feed(w io.Writer, p []byte) error {
	if err := c.usable(); err != nil {
		return err
	}

	src := p
	if len(c.tail) > 0 {
		c.tail = append(c.tail, p...)
		src = c.tail
	}

	rest, err := c.convert(w, src, false)
	if err != nil {
		return c.fail(err)
	}
	c.tail = append(c.tail[:0], rest...)
	return nil
}

// Close flushes any final conversion state to w and ends the session.
// A sequence still held back at this point is truncated input and yields
// ErrInvalidEncoding. Closing a session that already failed releases it
// and returns nil.
func (c *Converter) Close(w io.Writer) error {
	switch c.state {
	case stateIdle:
		return ErrNotOpen
	case stateClosed:
		return ErrClosed
	}

	defer c.release()

	if c.state == stateFailed {
		return nil
	}

	rest, err := c.convert(w, c.tail, true)
	if err == nil && len(rest) > 0 {
		err = c.conversionError(errTruncatedInput)
	}
	return err
}

// Err returns the error that failed the session, if any.
func (c *Converter) Err() error {
	return c.err
}

func (c *Converter) usable() error {
	switch c.state {
	case stateIdle:
		return ErrNotOpen
	case stateClosed:
		return ErrClosed
	case stateFailed:
		return c.err
	}
	return nil
}

func (c *Converter) fail(err error) error {
	c.state = stateFailed
	c.err = err
	c.tail = nil
	return err
}

func (c *Converter) release() {
	c.state = stateClosed
	c.t = nil
	c.tail = nil
}

// convert runs the transformer over src, flushing the output buffer to w
// whenever it fills and once more before returning. It returns the
// unconsumed suffix of src, which is non-empty only for an incomplete
// sequence.
func (c *Converter) convert(w io.Writer, src []byte, atEOF bool) ([]byte, error) {
	n := 0
	flush := func() error {
		if n == 0 {
			return nil
		}
		_, err := w.Write(c.out[:n])
		n = 0
		return err
	}

	for {
		nDst, nSrc, err := c.t.Transform(c.out[n:], src, atEOF)
		n += nDst
		src = src[nSrc:]
		c.consumed += int64(nSrc)

		switch {
		case err == nil:
			return src, flush()

		case errors.Is(err, transform.ErrShortDst):
			if n == 0 {
				return nil, errBufferTooSmall
			}
			if err := flush(); err != nil {
				return nil, err
			}

		case errors.Is(err, transform.ErrShortSrc) && !atEOF:
			if nDst > 0 || nSrc > 0 {
				continue
			}
			return src, flush()

		default:
			if ferr := flush(); ferr != nil {
				return nil, ferr
			}
			if errors.Is(err, transform.ErrShortSrc) {
				err = errTruncatedInput
			}
			return nil, c.conversionError(err)
		}
	}
}

func (c *Converter) conversionError(err error) *ConversionError {
	return &ConversionError{Offset: c.consumed, From: c.from, To: c.to, Err: err}
}

// ConvertString converts s from one charset to another in a single session.
func ConvertString(s, to, from string) (string, error) {
	c := NewConverter(-1)
	if err := c.Open(to, from); err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := c.Feed(&out, []byte(s)); err != nil {
		_ = c.Close(io.Discard)
		return "", err
	}
	if err := c.Close(&out); err != nil {
		return "", err
	}
	return out.String(), nil
}
