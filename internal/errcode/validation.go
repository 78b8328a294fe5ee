package errcode

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

// FromValidation converts the result of an ozzo-validation run into a
// ValidationError naming the first offending field in key order.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return Invalid("", err.Error())
	}
	fields := make([]string, 0, len(errs))
	for field, fieldErr := range errs {
		if fieldErr != nil {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return Invalid(fields[0], errs[fields[0]].Error())
}
