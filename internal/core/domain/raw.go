package domain

// RawDocument represents the bytes of one discovered source file.
// It is the loader's input to normalisation.
type RawDocument struct {
	// Path is the absolute file path.
	Path string

	// Extension is the lower-cased file extension including the dot.
	Extension string

	// Content is the raw bytes.
	Content []byte
}
