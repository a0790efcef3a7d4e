// Package uid generates opaque identifiers.
package uid

// StringID generates string identifiers such as correlation ids and object keys.
type StringID interface {
	Generate() string
}
