// Package apperr defines the typed errors shared by every layer of ozymandias.
//
// Errors carry a Kind (command, storage, validation, config, not found), a
// human message, an optional cause and free-form details. KindOf and ExitCode
// let the CLI map any wrapped error back to a process exit status.
package apperr
