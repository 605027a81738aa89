// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (documents, pipeline stages) and contracts
// (interfaces) only.
package domain
