// Package validation turns request bodies into typed values and records
// every constraint failure it finds on a BindingResult.
//
// Constraints come from `validate` struct tags (go-playground/validator),
// optionally refined by a Validatable hook for checks that cannot be
// expressed as tags. Binding never fails on a constraint: the violations
// are handed back to the caller, which decides whether to reject.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Validatable is implemented by payload types with checks beyond their
// struct tags. Return CustomValidationErrors to report several problems;
// an entry with an empty Field is recorded against the whole object.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single issue found by a Validatable hook.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

// newValidator reports fields by their json names so violation locations
// match what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks payload against its struct tags and Validatable hook.
// payload is usually a pointer to a struct. The returned result is never nil.
func Validate(payload any, objectName string) *BindingResult {
	result := NewBindingResult(objectName)

	if err := validate.Struct(payload); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			root := reflect.TypeOf(payload)
			for _, fe := range fieldErrors {
				result.addField(fieldPath(fe), messageFor(root, fe))
			}
		} else {
			// not a struct at all
			result.addObject(err.Error())
		}
	}

	if v, ok := payload.(Validatable); ok {
		if err := v.Validate(); err != nil {
			collectCustom(result, err)
		}
	}

	return result
}

func collectCustom(result *BindingResult, err error) {
	var custom CustomValidationErrors
	if !errors.As(err, &custom) {
		result.addObject(err.Error())
		return
	}

	for _, ce := range custom {
		if ce.Field == "" {
			result.addObject(ce.Message)
			continue
		}
		result.addField(ce.Field, ce.Message)
	}
}

// fieldPath drops the root type from the namespace: "Pet.name" -> "name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ObjectName derives the location used for object-level violations:
// the type name with a lowercased first letter.
func ObjectName(t reflect.Type) string {
	t = elemType(t)
	name := t.Name()
	if name == "" {
		return "object"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func elemType(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return t
		}
	}
	return t
}
