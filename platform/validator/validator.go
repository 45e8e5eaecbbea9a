// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// counties are the Irish administrative counties accepted by the `county`
// validation tag. Stored lowercased for case-insensitive matching.
var counties = map[string]bool{
	"antrim": true, "armagh": true, "carlow": true, "cavan": true,
	"clare": true, "cork": true, "derry": true, "donegal": true,
	"down": true, "dublin": true, "fermanagh": true, "galway": true,
	"kerry": true, "kildare": true, "kilkenny": true, "laois": true,
	"leitrim": true, "limerick": true, "longford": true, "louth": true,
	"mayo": true, "meath": true, "monaghan": true, "offaly": true,
	"roscommon": true, "sligo": true, "tipperary": true, "tyrone": true,
	"waterford": true, "westmeath": true, "wexford": true, "wicklow": true,
}

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the marketplace's custom rules registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("county", validCounty)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// IsCounty reports whether the value names a known Irish county.
func IsCounty(value string) bool {
	return counties[strings.ToLower(strings.TrimSpace(value))]
}

func validCounty(fl validator.FieldLevel) bool {
	return IsCounty(fl.Field().String())
}
