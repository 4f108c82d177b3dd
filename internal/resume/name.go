package resume

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NameTag is the validator tag for resume names
const NameTag = "resumename"

// namePattern: at least three letters, digits or underscores
var namePattern = regexp.MustCompile(`^[\p{L}\p{N}_]{3,}$`)

// ValidName reports whether name is an acceptable resume name
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidateName returns a ValidationError for names that do not match the name pattern
func ValidateName(name string) error {
	if ValidName(name) {
		return nil
	}
	return &ValidationError{
		Field:   "name",
		Message: "must be at least 3 characters of letters, digits or underscore",
	}
}

// ValidateOwner rejects a missing identity
func ValidateOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return &ValidationError{Field: "owner", Message: "identity is required"}
	}
	return nil
}

// RegisterValidation adds the resumename tag to a validator instance
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(NameTag, func(fl validator.FieldLevel) bool {
		return ValidName(fl.Field().String())
	})
}
