package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/getscript/errors"
)

// validate names fields by their config key so messages point at config.yml.
var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(configKey)
	return v
})

func configKey(fld reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(fld.Name)
}

// FieldError is one failed rule, keyed by its config path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks s against its `validate` tags. Failures come back as a
// single INVALID_INPUT AppError listing every field in Details["fields"].
func Validate(s any) error {
	err := validate().Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := stderrors.AsType[validator.ValidationErrors](err)
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, len(verrs))
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fieldPath(fe), Message: describe(fe)}
		parts[i] = fields[i].Field + ": " + fields[i].Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}

// fieldPath drops the root struct name: "Config.media.timeout" -> "media.timeout".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

var ruleMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gt":       "must be greater than %s",
	"gte":      "must be %s or more",
	"url":      "must be a valid URL",
	"http_url": "must be a valid URL",
	"oneof":    "must be one of: %s",
}

func describe(fe validator.FieldError) string {
	msg, ok := ruleMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	return strings.Replace(msg, "%s", fe.Param(), 1)
}

// snakeCase keeps acronyms together: "APIKey" -> "api_key", "BaseURL" -> "base_url".
func snakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(rs[i-1])
			acronymEnd := i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsUpper(rs[i-1])
			if prevLower || acronymEnd {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
