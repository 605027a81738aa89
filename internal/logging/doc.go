// Package logging builds the zap logger used by the CLI and services.
//
// Logs always go to the writer handed to New (stderr for the CLI) so that
// standard output stays reserved for command results.
package logging
