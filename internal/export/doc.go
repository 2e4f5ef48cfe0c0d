// Package export writes buffers to files and writers in a chosen charset
// and newline convention.
//
// Write streams a snapshot of a buffer through a stream.InputStream, so the
// buffer may keep changing while an export runs. SaveFile replaces a file
// atomically by writing a temporary file next to it and renaming it into
// place. Watch keeps a converted copy of a source file up to date.
//
// # Basic Usage
//
//	buf, err := export.LoadFile("notes.txt")
//	if err != nil {
//	    return err
//	}
//	res, err := export.SaveFile(ctx, "notes.dos.txt", buf, export.Options{
//	    Charset: "windows-1252",
//	    Newline: "crlf",
//	})
package export
