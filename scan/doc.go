// Package scan finds the data-model types of a project. A Scanner yields
// ModelCandidate values lazily; SourceScanner parses Go sources with
// tree-sitter and RegistryScanner reflects over the models registered with
// the database package.
package scan
