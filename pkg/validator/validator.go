package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

var validate = validator.New()

func init() {
	// Reject strings that are only whitespace
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
	}
	for _, fe := range validationErrors {
		errs = append(errs, &ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return errs
}
