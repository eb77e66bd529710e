// Package file provides file-based implementations of driven port interfaces.
// These adapters read from and persist to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: prompt templates with optional per-file overrides
package file
