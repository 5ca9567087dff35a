package dto

import (
	"regexp"

	"github.com/SscSPs/ledenbeheer/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	memberNumberPattern = regexp.MustCompile(`^[0-9]{4,10}$`)
	slugPattern         = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// RegisterValidators adds the custom binding tags used by the request types:
// membernumber, paymentmethod, statementformat, screenkind and slug.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	validations := map[string]validator.Func{
		"membernumber": func(fl validator.FieldLevel) bool {
			return memberNumberPattern.MatchString(fl.Field().String())
		},
		"paymentmethod": func(fl validator.FieldLevel) bool {
			return domain.PaymentMethod(fl.Field().String()).IsValid()
		},
		"statementformat": func(fl validator.FieldLevel) bool {
			_, err := domain.ParseStatementFormat(fl.Field().String())
			return err == nil
		},
		"screenkind": func(fl validator.FieldLevel) bool {
			return domain.ScreenKind(fl.Field().String()).IsValid()
		},
		"slug": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return len(s) <= 64 && slugPattern.MatchString(s)
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
