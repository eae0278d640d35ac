// Package tui provides the terminal user interface for decora: the
// consultation progress view shown while the crew works, and the
// interactive intake form that collects a consultation request.
package tui
