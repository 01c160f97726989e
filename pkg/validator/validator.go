package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/practice-api/pkg/errors"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
	RegisterTag(tag string, fn func(value interface{}) bool) error
	RegisterType(fn func(value reflect.Value) interface{}, types ...interface{})
}

type structValidator struct {
	v        *validator.Validate
	messages map[string]string
}

// New returns a validator that reads `validate` tags and names fields after their json tag.
func New() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &structValidator{
		v: v,
		messages: map[string]string{
			"required": "is required",
			"email":    "must be a valid email",
			"min":      "is too short",
			"max":      "is too long",
			"gt":       "must be greater than %s",
			"gte":      "must be at least %s",
		},
	}
}

func (s *structValidator) RegisterTag(tag string, fn func(value interface{}) bool) error {
	return s.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().Interface())
	})
}

// RegisterType maps custom types to a primitive before tags run, e.g. decimals to float64.
func (s *structValidator) RegisterType(fn func(value reflect.Value) interface{}, types ...interface{}) {
	s.v.RegisterCustomTypeFunc(fn, types...)
}

// Validate checks obj and returns an errors.Validation carrying one detail per failing field.
func (s *structValidator) Validate(obj interface{}) error {
	err := s.v.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Validation("invalid input", err)
	}

	appErr := errors.Validation("invalid input", err)
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		appErr.WithDetail(fe.Field(), s.message(fe))
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)
	appErr.Message = "invalid input: " + strings.Join(fields, ", ")
	return appErr
}

func (s *structValidator) message(fe validator.FieldError) string {
	msg, ok := s.messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("failed %q", fe.Tag())
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
