// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Normaliser: Extracts plain text from one file format
//   - EmbeddingService: Turns text into vectors (external capability)
//   - LLMService: Completes a chat prompt (external capability)
//   - VectorStore: Builds, persists and loads vector indexes
//   - VectorIndex: Nearest-neighbour search over embedded chunks
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//   - MetricsRecorder: Operational measurements
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
