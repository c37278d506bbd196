// Package validator provides struct validation for Vermy inputs.
//
// It wraps go-playground/validator and reports fields by their JSON
// names with human-readable messages.
//
// # Usage
//
// Services validate every input before touching storage:
//
//	if err := validator.Check(input); err != nil {
//	    return nil, err // *errors.AppError with code VALIDATION_ERROR
//	}
//
// Validate returns the raw ValidationErrors list instead.
package validator
