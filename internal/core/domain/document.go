package domain

// SourceDocument is the plain text extracted from one source file.
// It is immutable once loaded.
type SourceDocument struct {
	// Content is the full extracted text.
	Content string

	// SourcePath is the absolute path of the file the text came from.
	SourcePath string
}

// Chunk is a contiguous window of a SourceDocument's content.
// Offsets count characters, with 0 <= StartOffset < EndOffset <= len(content).
type Chunk struct {
	// ID is stable for a given path and offset pair.
	ID string

	// Text is the substring content[StartOffset:EndOffset].
	Text string

	// SourcePath links the chunk back to its document.
	SourcePath string

	// StartOffset is the inclusive character offset.
	StartOffset int

	// EndOffset is the exclusive character offset.
	EndOffset int
}

// Len returns the chunk length in characters.
func (c Chunk) Len() int {
	return c.EndOffset - c.StartOffset
}
