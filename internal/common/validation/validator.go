package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/auth-api/internal/common/logger"
)

// FieldViolation is one failed rule, keyed by the dotted request path.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Violations []FieldViolation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MessageOverrider lets a schema replace default messages. Keys are
// "<field path>.<rule>", e.g. "email.required".
type MessageOverrider interface {
	ValidationMessages() map[string]string
}

var ErrSchemaNotStruct = errors.New("validation schema must be a struct")

var indexPattern = regexp.MustCompile(`\[([^\]]+)\]`)

type Validator struct {
	validate *validator.Validate
	log      *logger.Logger
}

// New builds a Validator; log receives one line per rejected request.
func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	// maxbytes bounds the UTF-8 length, which max (rune count) does not.
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return &Validator{validate: v, log: log}
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "param", "query"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Struct validates schema. It returns *Error for rule violations and a plain
// error when schema cannot be validated at all.
func (v *Validator) Struct(schema any) error {
	err := v.validate.Struct(schema)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %v", ErrSchemaNotStruct, err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var overrides map[string]string
	if o, ok := schema.(MessageOverrider); ok {
		overrides = o.ValidationMessages()
	}

	violations := make([]FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fieldPath(fe.Namespace())
		msg, ok := overrides[path+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		violations = append(violations, FieldViolation{Field: path, Message: msg})
	}

	return &Error{Violations: violations}
}

// fieldPath drops the root type name and turns "items[0].name" into
// "items.0.name".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func defaultMessage(fe validator.FieldError) string {
	kind := fe.Kind()
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("Must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("Must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("Must be at most %s bytes", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "uuid", "uuid4":
		return "Invalid UUID"
	}
	return fmt.Sprintf("Failed %s validation", fe.Tag())
}
