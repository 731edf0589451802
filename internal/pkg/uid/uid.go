// Package uid generates identifiers for events and correlation ids.
package uid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
