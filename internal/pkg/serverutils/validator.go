package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cloudnotes-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest returns a BadRequest describing the first failing field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Internal("validate request", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperror.BadRequest(fmt.Sprintf("%s is required", fe.Field()))
	default:
		return apperror.BadRequest(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
