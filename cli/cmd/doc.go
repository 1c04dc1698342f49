// Package cmd implements the subcommands of the formula command line.
//
// Each command is a kong command struct whose Run method receives the
// command context and the output writer. Commands that read a document embed
// [Document]; commands that print values embed [Output].
package cmd
