package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vzahanych/weather-archive-app/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("latitude", validateLatitude); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("longitude", validateLongitude); err != nil {
		panic(err)
	}

	// Coordinates validate as their numeric value.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if c, ok := field.Interface().(models.Coordinate); ok {
			return c.Value
		}
		return nil
	}, models.Coordinate{})

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180.0 && lon <= 180.0
}

type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, err := range validatorErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Value:   err.Value(),
				Tag:     err.Tag(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude between -90 and 90 degrees", err.Field())
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude between -180 and 180 degrees", err.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err != nil {
		return FormatValidationErrors(err)
	}
	return nil
}
