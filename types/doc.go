// Package types holds small value types shared across packages: pagination
// requests and results for the base repository and the filesystem error
// reported by the scanner and the file emitter.
package types
