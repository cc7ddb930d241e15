package serverutils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"ai-playground-be/internal/pkg/apperrors"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and collapses failures into a
// single InvalidInput error the boundary can return as-is.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				fields = append(fields, strings.ToLower(ve.Field()))
			}
			return apperrors.InvalidInput("invalid request fields: " + strings.Join(fields, ", "))
		}
		return apperrors.InvalidInput("invalid request body")
	}
	return nil
}
