// Package validation checks entity field sets before they reach the database
// and reports violations per field, in declaration order.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type FieldError struct {
	Field   string
	Message string
}

type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Flatten(), "; ")
}

// ByField groups the messages under their field names.
func (e Errors) ByField() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, fe := range e {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

// Flatten renders every violation as "field: message", grouped by field in
// the order fields first appear.
func (e Errors) Flatten() []string {
	grouped := e.ByField()
	out := make([]string, 0, len(e))
	for _, fe := range e {
		msgs, pending := grouped[fe.Field]
		if !pending {
			continue
		}
		for _, msg := range msgs {
			out = append(out, fe.Field+": "+msg)
		}
		delete(grouped, fe.Field)
	}
	return out
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		mustRegister(v, "decimal_gte", decimalGTE)
		mustRegister(v, "decimal_digits", decimalDigits)
		mustRegister(v, "decimal_places", decimalPlaces)
		mustRegister(v, "decimal_whole", decimalWhole)
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

const requiredMessage = "this field is required"

// Required reports field as missing from the request.
func Required(field string) FieldError {
	return FieldError{Field: field, Message: requiredMessage}
}

// Join appends extra violations to the result of Struct. An err that is not
// Errors is returned unchanged.
func Join(err error, extra ...FieldError) error {
	if err == nil {
		if len(extra) == 0 {
			return nil
		}
		return Errors(extra)
	}
	var verrs Errors
	if !errors.As(err, &verrs) {
		return err
	}
	return append(verrs, extra...)
}

// Struct validates v and returns nil or a non-empty Errors.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return requiredMessage
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "gte", "decimal_gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "decimal_digits":
		return fmt.Sprintf("ensure that there are no more than %s digits in total", fe.Param())
	case "decimal_places":
		return fmt.Sprintf("ensure that there are no more than %s decimal places", fe.Param())
	case "decimal_whole":
		return fmt.Sprintf("ensure that there are no more than %s digits before the decimal point", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, int, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return decimal.Decimal{}, 0, false
	}
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return decimal.Decimal{}, 0, false
	}
	return d, n, true
}

func decimalGTE(fl validator.FieldLevel) bool {
	d, n, ok := fieldDecimal(fl)
	return ok && d.GreaterThanOrEqual(decimal.NewFromInt(int64(n)))
}

func decimalPlaces(fl validator.FieldLevel) bool {
	d, n, ok := fieldDecimal(fl)
	return ok && d.Equal(d.Truncate(int32(n)))
}

// decimalDigits counts integer digits plus fractional digits, ignoring a
// leading zero and trailing fractional zeros.
func decimalDigits(fl validator.FieldLevel) bool {
	d, n, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	intPart, fracPart := digits(d)
	return len(intPart)+len(fracPart) <= n
}

// decimalWhole limits the digits before the decimal point.
func decimalWhole(fl validator.FieldLevel) bool {
	d, n, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	intPart, _ := digits(d)
	return len(intPart) <= n
}

func digits(d decimal.Decimal) (intPart, fracPart string) {
	intPart, fracPart, _ = strings.Cut(d.Abs().String(), ".")
	if intPart == "0" {
		intPart = ""
	}
	return intPart, fracPart
}
