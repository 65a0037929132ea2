// Package cli provides the make-repository command, its configuration and
// logging setup.
//
// The command can run standalone (cmd/make-repository) or be mounted into a
// host binary's command tree through reposmith.Command.
package cli
