// Package services – input validation
//
// This file implements explicit, UI-independent validation for the entities
// accepted by the service layer. Each Validate* function returns a structured
// list of field-level errors that handlers re-render for the caller, keeping
// validation rules out of transport DTOs and framework binding tags.
package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Categories is the fixed set of recipe categories offered by the
// application. An empty category is allowed; anything else must match.
var Categories = []string{
	"Appetiser", "Main Course", "Dessert", "Soup", "Salad", "Snack",
	"Breakfast", "Brunch", "Baking", "Beverage", "Side Dish", "Vegetarian",
	"Vegan", "Gluten-Free", "Pasta", "Rice", "Grilled", "Tray Bake",
	"Stir-Fry", "Slow Cooker", "Seafood", "Ethnic Cuisine",
}

// FieldError describes a single invalid field in a submitted entity.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the field-level problems of one submission.
// It satisfies error so services can return it alongside sentinel errors;
// handlers detect it with errors.As and respond with the field list.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface with a compact summary.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validate is the shared validator instance. Field names in errors come from
// the json tag so they match the wire format clients submitted.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Category values contain spaces, so a oneof tag cannot express them.
	_ = v.RegisterValidation("recipecategory", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, c := range Categories {
			if s == c {
				return true
			}
		}
		return false
	})
	return v
}

// validateStruct runs the shared validator and converts its output into a
// *ValidationError, or nil when the value is valid.
func validateStruct(v any) *ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: []FieldError{{Field: "_", Message: err.Error()}}}
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

// fieldMessage renders a user-facing message for a single validator failure.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "alphanum":
		return "may only contain letters and digits"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "recipecategory":
		return "must be one of the supported categories"
	default:
		return "is invalid"
	}
}
