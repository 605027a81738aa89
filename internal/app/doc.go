// Package app wires application dependencies for the CLI.
//
// It loads the knowledge-base configuration, opens the configured document
// store and builds the parser, transformer, ontology and services on top of
// it, exposing them via the Wire struct for commands to use.
package app
