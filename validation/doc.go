// Package validation checks configuration structs against their
// `validate` tags with go-playground/validator. Failures are reported as
// one *errors.AppError listing every field by its config path.
//
//	if err := validation.Validate(cfg); err != nil { ... }
package validation
