// Package repository provides the generic base that generated repositories
// embed. Every method forwards to a Bun query; the package adds no
// persistence behaviour of its own.
package repository
