package services

import (
	"errors"
	"strings"

	"loyalty-mission-system/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the struct tags and aggregates every failed field into
// a single V001 error, so the client sees all problems at once.
func ValidateStruct(v any) *apperr.Error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return apperr.Validation(fields)
}
