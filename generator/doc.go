// Package generator turns a make-repository request into a source file.
//
// Resolver binds the requested repository to a model, looking the model up
// through a scan.Scanner when it is not given explicitly. Layout maps the
// raw request to a target directory and derives the namespace from that
// directory alone. Emitter renders the stub by literal token replacement and
// writes the file atomically.
package generator
