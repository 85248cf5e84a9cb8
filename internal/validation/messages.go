package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// messageFor prefers the message declared in the field's msg tag
// ("required=Name cannot be empty;oneof=...") and falls back to a
// generic message per validator tag.
func messageFor(root reflect.Type, fe validator.FieldError) string {
	if msg, ok := customMessage(root, fe); ok {
		return msg
	}
	return defaultMessage(fe)
}

func customMessage(root reflect.Type, fe validator.FieldError) (string, bool) {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) < 2 {
		return "", false
	}

	var field reflect.StructField
	t := root
	for _, part := range parts[1:] {
		if i := strings.IndexByte(part, '['); i >= 0 {
			part = part[:i]
		}

		t = elemType(t)
		if t == nil || t.Kind() != reflect.Struct {
			return "", false
		}

		f, ok := t.FieldByName(part)
		if !ok {
			return "", false
		}
		field, t = f, f.Type
	}

	return lookupMsgTag(field.Tag.Get("msg"), fe.Tag())
}

func lookupMsgTag(tag, constraint string) (string, bool) {
	if tag == "" {
		return "", false
	}

	for _, entry := range strings.Split(tag, ";") {
		key, msg, found := strings.Cut(entry, "=")
		if found && strings.TrimSpace(key) == constraint {
			return strings.TrimSpace(msg), true
		}
	}
	return "", false
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"

	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	case "email":
		return "must be a valid email address"

	case "uuid":
		return "must be a valid UUID"

	case "dive":
		return "some items are invalid"

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed on %s:%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
