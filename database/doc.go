// Package database opens the bun connection that generated repositories run
// against. It keeps the registry of model structs, which doubles as a source
// of model candidates for the generator, and classifies driver errors for
// the repository layer.
package database
