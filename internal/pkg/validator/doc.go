// Package validator validates request and event structs.
//
// Business code depends on the Validator interface; V10Validator is backed by
// go-playground/validator v10 with English messages and snake_case keys.
package validator
