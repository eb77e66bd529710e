// Package domain defines the core entities of the resume assistant.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - SourceDocument: Plain text extracted from one resume file
//   - Chunk: An overlapping window of a SourceDocument
//   - Snapshot: The mtime/size fingerprint of the document set
//   - Settings: Typed configuration resolved once at startup
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
