// Package buffer provides a thread-safe, line-oriented text buffer.
//
// The buffer keeps its text exactly as it was given: line breaks are
// recognised but never rewritten, so a document with mixed line endings
// keeps them. A line break is any of "\n", "\r", "\r\n" or U+2029
// (paragraph separator).
//
// Line model:
//
// Every line except the last is followed by a line break; the last line
// never is. An empty buffer therefore has one empty line, and "a\n" has
// the two lines "a" and "".
//
//	buf := buffer.NewBufferFromString("Hello\r\nWorld")
//	buf.LineCount()      // 2
//	buf.LineText(0)      // "Hello"
//	buf.LineTerminator(0) // "\r\n"
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. Snapshot returns
// an immutable view that can be read (and streamed) while the buffer keeps
// changing.
package buffer
