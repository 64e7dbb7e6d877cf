package block

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	nodeValidator *validator.Validate
)

// validate returns the shared validator. validator.Validate caches struct
// metadata and is safe for concurrent use once configured.
func validate() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("attrkeys", validAttributeKeys)
		nodeValidator = v
	})
	return nodeValidator
}

// jsonFieldName reports validation failures using wire names ("name",
// "attributes") rather than Go field names.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// validAttributeKeys rejects attribute maps containing blank keys.
func validAttributeKeys(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	for _, k := range field.MapKeys() {
		if k.Kind() != reflect.String || strings.TrimSpace(k.String()) == "" {
			return false
		}
	}
	return true
}

// Validate checks the node's own structure: a non-empty kind and an
// attribute map without blank keys. Children are not inspected.
func Validate(n Node) error {
	err := validate().Struct(n)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Field()+" "+formatValidationError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "attrkeys":
		return "contains an empty key"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
