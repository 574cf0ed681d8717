package validator

import (
	"reflect"
	"strings"
	"unicode"

	apperrors "github.com/SAP-F-2025/testtask-service/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the struct validator with the service's custom rules
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new validator instance with custom rules registered
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags and returns ValidationErrors on failure
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}
	if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return err
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	// Text that ends up in spreadsheet cells
	validate.RegisterValidation("cell_text", validateCellText)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateCellText rejects control characters, which are not allowed in xlsx XML.
func validateCellText(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
