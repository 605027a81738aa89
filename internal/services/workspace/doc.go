// Package workspace prepares the on-disk knowledge-base layout: the home
// directory, its config file and the storage backend.
package workspace
