package charset

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// utf8Validator copies well-formed UTF-8 and rejects anything else.
// An incomplete trailing sequence is reported as transform.ErrShortSrc
// unless atEOF is set.
type utf8Validator struct {
	transform.NopResetter
}

// Transform implements transform.Transformer.
func (utf8Validator) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		size := 1
		if src[nSrc] >= utf8.RuneSelf {
			r, n := utf8.DecodeRune(src[nSrc:])
			if r == utf8.RuneError && n == 1 {
				if !atEOF && !utf8.FullRune(src[nSrc:]) {
					err = transform.ErrShortSrc
				} else {
					err = errInvalidUTF8
				}
				break
			}
			size = n
		}
		if nDst+size > len(dst) {
			err = transform.ErrShortDst
			break
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, err
}

// strictEncoding wraps a single-byte encoding whose encoder silently
// substitutes unmappable characters. Its encoder fails instead.
type strictEncoding struct {
	encoding.Encoding
	repertoire map[rune]bool
}

// newStrictEncoding records every rune the encoding can produce from a
// single byte.
func newStrictEncoding(e encoding.Encoding) *strictEncoding {
	repertoire := make(map[rune]bool, 256)
	dec := e.NewDecoder()
	for i := 0; i < 256; i++ {
		out, err := dec.Bytes([]byte{byte(i)})
		if err != nil {
			continue
		}
		r, size := utf8.DecodeRune(out)
		if r == utf8.RuneError || size != len(out) {
			continue
		}
		repertoire[r] = true
	}
	return &strictEncoding{Encoding: e, repertoire: repertoire}
}

// NewEncoder returns an encoder that fails on characters outside the
// repertoire.
func (s *strictEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{
		Transformer: transform.Chain(repertoireFilter{repertoire: s.repertoire}, s.Encoding.NewEncoder()),
	}
}

// repertoireFilter passes UTF-8 through while every rune is in repertoire.
type repertoireFilter struct {
	transform.NopResetter
	repertoire map[rune]bool
}

// Transform implements transform.Transformer.
func (f repertoireFilter) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				err = transform.ErrShortSrc
			} else {
				err = errInvalidUTF8
			}
			break
		}
		if !f.repertoire[r] {
			err = fmt.Errorf("character %U not representable", r)
			break
		}
		if nDst+size > len(dst) {
			err = transform.ErrShortDst
			break
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, err
}
