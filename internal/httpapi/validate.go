package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the wire name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct checks the declared constraints and returns per-field message
// lists, or nil when the input is valid.
func validateStruct(v any) map[string][]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return map[string][]string{"_": {err.Error()}}
	}
	out := make(map[string][]string, len(invalid))
	for _, fe := range invalid {
		field := fe.Field()
		out[field] = append(out[field], messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// boolish accepts JSON true/false and the 0/1 forms used by the mobile
// clients. A value outside that set is kept as present-but-invalid so the
// handler can report a field error instead of a malformed-body failure.
type boolish struct {
	set   bool
	valid bool
	value bool
}

func (b *boolish) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "null":
		return nil
	case "true", "1", `"1"`, `"true"`:
		b.set, b.valid, b.value = true, true, true
	case "false", "0", `"0"`, `"false"`:
		b.set, b.valid, b.value = true, true, false
	default:
		b.set = true
	}
	return nil
}

// completedErrors validates a boolish field; required only applies on create.
func completedErrors(b boolish, required bool) []string {
	if !b.set {
		if required {
			return []string{"The completed field is required."}
		}
		return nil
	}
	if !b.valid {
		return []string{"The completed field must be true or false."}
	}
	return nil
}
