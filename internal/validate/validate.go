package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := utils.ParseWeekday(fl.Field().String())
		return ok
	})
	_ = val.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return utils.IsValidHHMM(fl.Field().String())
	})
	_ = val.RegisterValidation("ddmmyyyy", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = val.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return len(utils.OnlyDigits(fl.Field().String())) == 11
	})
	return val
}

// Struct validates s against its `validate` tags and flattens the failures
// into one readable message.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "weekday":
		return field + " must be a weekday name (e.g. Segunda-feira)"
	case "hhmm":
		return field + " must be HH:MM"
	case "ddmmyyyy":
		return field + " must be DD-MM-YYYY"
	case "cpf":
		return field + " must have 11 digits"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
