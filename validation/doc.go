// Package validation validates configuration structs with go-playground
// validator tags and reports failures as *errors.AppError.
//
//	type Config struct {
//	    Capacity int `mapstructure:"capacity" validate:"min=1"`
//	}
//	err := validation.Validate(cfg)
//
// Field names in messages come from the mapstructure tag, falling back to
// the snake_cased Go field name, so they match the keys users write in
// config.yml.
package validation
