package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ozymandias/internal/apperr"
	"ozymandias/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateDocument checks doc against its struct tags.
func validateDocument(doc domain.Document) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.NewValidationError("invalid document").WithCause(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return apperr.NewValidationError(strings.Join(msgs, "; ")).
		WithDetail("path", doc.Source)
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, strings.ToLower(e.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
