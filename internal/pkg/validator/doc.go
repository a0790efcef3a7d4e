// Package validator validates request and domain structs.
//
// Business code depends on the Validator interface; V10Validator is the
// go-playground/validator v10 implementation with English messages.
package validator

// Validator validates a struct and returns a V10ValidationError on failure.
type Validator interface {
	Validate(data any) error
}
