package form

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks that the fields required by the current mode are present.
// A non-nil result is a validator.ValidationErrors naming the missing fields.
func Validate(s State) error {
	return validate.Struct(s)
}

// IsInvalid reports whether the form may not be submitted: login or password
// is empty, or the name is empty in signup mode. No format checks are made.
func IsInvalid(s State) bool {
	return Validate(s) != nil
}
