package charset

import (
	"fmt"
	"strings"

	gdencoding "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// UTF8 is the canonical name of the UTF-8 charset.
const UTF8 = "UTF-8"

// builtin holds charsets resolved before the IANA registry.
type builtin struct {
	name string
	enc  encoding.Encoding
}

var (
	strictASCII  = newStrictEncoding(gdencoding.ASCII)
	strictEBCDIC = newStrictEncoding(gdencoding.EBCDIC)

	builtins = map[string]builtin{
		"utf-8":          {UTF8, unicode.UTF8},
		"utf8":           {UTF8, unicode.UTF8},
		"ascii":          {"US-ASCII", strictASCII},
		"us-ascii":       {"US-ASCII", strictASCII},
		"ansi_x3.4-1968": {"US-ASCII", strictASCII},
		"646":            {"US-ASCII", strictASCII},
		"ebcdic":         {"EBCDIC", strictEBCDIC},
	}
)

// Lookup resolves a charset name to an encoding and its canonical name.
// Names are matched case-insensitively. Unknown names yield
// ErrUnsupportedCharset.
func Lookup(name string) (encoding.Encoding, string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, "", fmt.Errorf("%w: empty name", ErrUnsupportedCharset)
	}

	if b, ok := builtins[key]; ok {
		return b.enc, b.name, nil
	}

	// ianaindex returns a nil encoding without error for registered
	// charsets that x/text does not implement.
	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		canonical, err := ianaindex.IANA.Name(enc)
		if err != nil {
			canonical = strings.ToUpper(key)
		}
		return enc, canonical, nil
	}

	if enc, err := htmlindex.Get(key); err == nil && enc != nil {
		canonical, err := htmlindex.Name(enc)
		if err != nil {
			canonical = key
		}
		return enc, strings.ToUpper(canonical), nil
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedCharset, name)
}

// Canonical returns the canonical name for a charset name.
func Canonical(name string) (string, error) {
	_, canonical, err := Lookup(name)
	return canonical, err
}

// IsUTF8 reports whether name denotes UTF-8.
func IsUTF8(name string) bool {
	canonical, err := Canonical(name)
	return err == nil && canonical == UTF8
}
