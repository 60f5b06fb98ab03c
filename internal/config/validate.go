package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jmgilman/nodeenv/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their settings key rather than the Go name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks s against its struct constraints. The returned error has
// code INVALID_CONFIGURATION and a "fields" context entry mapping each bad
// key to a message.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, errors.CodeInvalidConfig, "invalid settings")
	}

	fields := make(map[string]string, len(verrs))
	keys := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		fields[key] = validationMessage(fe)
		keys = append(keys, key)
	}

	return errors.WithContext(
		errors.Newf(errors.CodeInvalidConfig, "invalid settings: %s", strings.Join(keys, ", ")),
		"fields", fields,
	)
}

// fieldKey turns "Settings.cache.match_ttl" into "cache.match_ttl".
func fieldKey(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hostname_port":
		return "must be in format 'host:port'"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}
