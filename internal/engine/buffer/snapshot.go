package buffer

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	text       string
	lines      []lineSpan
	revisionID RevisionID
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.text
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.text))
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return uint32(len(s.lines))
}

// LineText returns the text of a specific line (without its line break).
func (s *Snapshot) LineText(line uint32) string {
	return lineText(s.text, s.lines, line)
}

// LineTerminator returns the line break that follows line.
func (s *Snapshot) LineTerminator(line uint32) string {
	return lineTerminator(s.text, s.lines, line)
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return len(s.text) == 0
}
