package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// issnPattern matches the standard ISSN form: four digits, a hyphen, three
// digits and a final digit or check character X.
var issnPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{3}[0-9Xx]$`)

func validateISSN(fl validator.FieldLevel) bool {
	return issnPattern.MatchString(fl.Field().String())
}

// RegisterCustomValidators installs the binding validations the request DTOs
// reference. Must be called once before the router starts serving.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("issn", validateISSN)
	}
}
