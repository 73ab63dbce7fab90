package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate        = newValidator()
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		rating := fl.Field().Int()
		return rating >= 1 && rating <= 5
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidateStruct returns field errors keyed by JSON name, or nil when data is valid.
func ValidateStruct(data interface{}) FieldErrors {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := FieldErrors{}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors.Add(err.Field(), getErrorMessage(err))
		}
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		if err.Kind() == reflect.String {
			return "This field may not be blank."
		}
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", err.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", err.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", err.Param())
	case "rating":
		return "Rating must be between 1 and 5."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "uuid":
		return "Must be a valid UUID."
	default:
		return fmt.Sprintf("Invalid %s field.", err.Field())
	}
}

// FormatValidationErrors flattens field errors into a single string for logs.
func FormatValidationErrors(errors FieldErrors) string {
	var msgs []string
	for field, list := range errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, strings.Join(list, " ")))
	}
	return strings.Join(msgs, "; ")
}
