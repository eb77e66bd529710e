package domain

// Answer is the result of answering one question.
type Answer struct {
	// Result is the raw completion text.
	Result string `json:"result"`
}

// CacheState reports whether startup reused a persisted index.
type CacheState string

const (
	// CacheCold means the index was rebuilt from the documents.
	CacheCold CacheState = "cold"

	// CacheWarm means a persisted index was reused without embedding.
	CacheWarm CacheState = "warm"
)

// String returns the string representation.
func (s CacheState) String() string {
	return string(s)
}

// IndexReport summarises the outcome of a startup index build.
type IndexReport struct {
	// State is warm when the cache was reused.
	State CacheState

	// Files is the number of discovered source files.
	Files int

	// Chunks is the number of chunks in the index.
	Chunks int

	// Reason explains why the cache was not used; empty when warm.
	Reason error
}
