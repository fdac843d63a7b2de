// Package validation wires go-playground/validator into the apperr taxonomy.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// New returns a validator that reports fields by their json names.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Check validates s and converts failures into apperr.FieldErrors.
func Check(v *validatorv10.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return toFieldErrors(err)
	}
	return nil
}

// BindJSON decodes the request body into out and validates it.
func BindJSON(c *gin.Context, v *validatorv10.Validate, out any) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return apperr.Validation("body", err.Error())
	}
	return Check(v, out)
}

func toFieldErrors(err error) error {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Validation("body", err.Error())
	}
	fields := apperr.FieldErrors{}
	for _, fe := range ve {
		fields.Add(fe.Field(), message(fe))
	}
	return fields
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required in this mode"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid", "uuid4":
		return "must be a uuid"
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
