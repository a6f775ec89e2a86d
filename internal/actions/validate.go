package actions

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const msgValidationFailed = "Validation failed."

var messages = map[string]string{
	"firstName.min":         "First name is required.",
	"lastName.min":          "Last name is required.",
	"email.required":        "Invalid email address.",
	"email.email":           "Invalid email address.",
	"phone.max":             "Phone number is too long.",
	"propertyInterest.enum": "Select a property interest.",
	"source.enum":           "Select a source.",
	"transaction.enum":      "Select a transaction type.",
	"status.enum":           "Invalid status.",
	"leadId.required":       "Lead is required.",
	"title.min":             "Title must be at least 3 characters.",
	"duration.min":          "Duration must be at least 15 minutes.",
	"duration.max":          "Duration must be at most 24 hours.",
}

type enum interface{ Valid() bool }

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enum)
		return ok && e.Valid()
	})
	return v
}

// check validates v and returns its failures keyed by form field name.
func (s *Service) check(v interface{}, errs FieldErrors) FieldErrors {
	err := s.validate.Struct(v)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("form", err.Error())
		return errs
	}
	for _, fe := range verrs {
		if len(errs[fe.Field()]) > 0 {
			continue
		}
		errs.add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "enum":
		return "Select a valid option."
	}
	return "Invalid value."
}
