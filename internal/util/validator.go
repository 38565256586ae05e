package util

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal is validated as its string form, e.g. `validate:"required"`
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidateStruct checks the `validate` tags of s and flattens the failures
// into one readable error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

// ValidateDate checks that year/month/day name a real calendar date.
func ValidateDate(year, month, day int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("year out of range, got %d", year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month out of range, got %d", month)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return nil
}

// ValidateAmount checks that an order or price amount is positive.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	return nil
}
