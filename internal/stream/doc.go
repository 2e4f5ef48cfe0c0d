// Package stream turns a text buffer into a byte stream with a chosen
// newline convention and character set.
//
// The pipeline has two stages. A Rewriter walks the buffer line by line and
// produces UTF-8 chunks in which every line break is written as the
// configured NewlineType. An InputStream feeds those chunks through a
// charset.Converter and hands the converted bytes out through io.Reader:
//
//	s := stream.New(buf,
//	    stream.WithNewline(stream.NewlineCRLF),
//	    stream.WithCharset("ISO-8859-15"),
//	)
//	defer s.Close()
//	_, err := io.Copy(w, s)
//
// Work is done lazily inside Read, one chunk at a time, so the size of the
// caller's read buffer never changes the bytes produced.
//
// An InputStream is meant for one goroutine. To stream a buffer that is
// being edited, pass a snapshot.
package stream
