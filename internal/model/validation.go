package model

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

// Checker is implemented by insertables with rules that span several fields.
type Checker interface {
	Check() error
}

var (
	validatorOnce sync.Once
	structs       validator.Validator
)

func modelValidator() validator.Validator {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterType(func(field reflect.Value) interface{} {
			return moneyFloat(field.Interface().(decimal.Decimal))
		}, decimal.Decimal{})
		v.RegisterType(func(field reflect.Value) interface{} {
			d := field.Interface().(Date)
			if d.IsZero() {
				return ""
			}
			return d.String()
		}, Date{})
		v.RegisterType(func(field reflect.Value) interface{} {
			t := field.Interface().(TimeOfDay)
			if t.IsZero() {
				return ""
			}
			return t.String()
		}, TimeOfDay{})

		tags := map[string]func(interface{}) bool{
			"role": func(x interface{}) bool {
				r, ok := x.(Role)
				return ok && r.Valid()
			},
			"userstatus": func(x interface{}) bool {
				s, ok := x.(UserStatus)
				return ok && s.Valid()
			},
			"appointmentstatus": func(x interface{}) bool {
				s, ok := x.(AppointmentStatus)
				return ok && s.Valid()
			},
			"transactiontype": func(x interface{}) bool {
				t, ok := x.(TransactionType)
				return ok && t.Valid()
			},
			"invoicestatus": func(x interface{}) bool {
				s, ok := x.(InvoiceStatus)
				return ok && s.Valid()
			},
			"yearmonth": func(x interface{}) bool {
				s, ok := x.(string)
				return ok && ValidYearMonth(s)
			},
		}
		for tag, fn := range tags {
			if err := v.RegisterTag(tag, fn); err != nil {
				panic(err)
			}
		}

		structs = v
	})
	return structs
}

// Validate runs field tags and then any cross-field Check.
func Validate(v interface{}) error {
	if err := modelValidator().Validate(v); err != nil {
		return err
	}
	if c, ok := v.(Checker); ok {
		return c.Check()
	}
	return nil
}

// Decode reads one JSON insertable from r, rejecting unknown fields such as id or
// createdAt, and validates it.
func Decode(r io.Reader, dst interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.IsCode(err, errors.ErrValidation) {
			return err
		}
		return errors.Validation("malformed input", err)
	}
	return Validate(dst)
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte, dst interface{}) error {
	return Decode(bytes.NewReader(data), dst)
}
