// Package commands defines the ozymandias CLI.
//
// Commands
//
//   - init        Create the knowledge base and print a greeting
//   - ingest      Parse, classify and store files or directories
//   - show        Print a stored document
//   - list        List stored documents
//   - related     Find documents related to one
//   - remove      Delete a document
//   - categories  Print the taxonomy with document counts
//   - watch       Keep the knowledge base in sync with a directory
//   - version     Print the build version
//
// # Implementation
//
// The root command resolves the home directory, loads the config file and
// builds the zap logger before any subcommand runs. Logs go to stderr so
// stdout carries only command output. Subcommands that touch documents open
// the store through app.NewWire and close it when they return.
package commands
