// Package validation provides input validation utilities.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// used at configuration boundaries.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Base    string `validate:"required"`
//	    Workers int    `validate:"min=1,max=256"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("tag", cfg.Tag)
//	err := v.Validate()
package validation
