package catalog

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// forbiddenRecordChars cannot appear inside a field of a serialized record.
const forbiddenRecordChars = ",\n\r"

func newValidator() *validator.Validate {
	validate := validator.New()

	// Register custom validation rules
	validate.RegisterValidation("record_field", validateRecordField)

	return validate
}

// validateRecordField rejects text that would split or terminate a record line
func validateRecordField(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), forbiddenRecordChars)
}

// validateCommand checks an add command and converts failures to an AppError
func (s *Service) validateCommand(cmd inbound.AddRecipeCommand) error {
	err := s.validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Wrap(err, "failed to validate recipe")
	}

	fields := make([]errors.ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, errors.ValidationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: validationMessage(e),
		})
	}

	return errors.NewValidationErrors(fields)
}

func validationMessage(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "record_field":
		return fmt.Sprintf("%s must not contain commas or line breaks", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
