// Package charset converts byte streams between character sets
// incrementally.
//
// A Converter is a single conversion session. It accepts input in chunks of
// any size, holds back a multi-byte sequence that is split across chunks and
// completes it with the next chunk, and writes converted output in pieces
// no larger than its buffer size:
//
//	c := charset.NewConverter(-1) // default buffer size
//	if err := c.Open("ISO-8859-15", "UTF-8"); err != nil {
//	    return err // ErrUnsupportedCharset
//	}
//	var out bytes.Buffer
//	for _, chunk := range chunks {
//	    if err := c.Feed(&out, chunk); err != nil {
//	        return err // ErrInvalidEncoding
//	    }
//	}
//	return c.Close(&out)
//
// An incomplete sequence (more input needed) is never an error while the
// session is open. Bytes that are invalid in the source charset, and
// characters the target charset cannot represent, fail the session with
// ErrInvalidEncoding.
//
// Charset names are resolved by Lookup: UTF-8 and a few strict single-byte
// charsets first, then the IANA registry, then the WHATWG encoding labels.
//
// A Converter is not safe for concurrent use.
package charset
