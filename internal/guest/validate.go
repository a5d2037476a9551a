package guest

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ioramishvili/GuestService/internal/domain"
)

// intlPhone matches a leading + followed by 1 to 15 digits.
var intlPhone = regexp.MustCompile(`^\+\d{1,15}$`)

// guestRules mirrors domain.Guest for field-rule validation.
type guestRules struct {
	FirstName string  `json:"first_name" validate:"required,max=30"`
	LastName  string  `json:"last_name" validate:"required,max=30"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone" validate:"required,intlphone"`
	Country   string  `json:"country" validate:"omitempty,max=30"`
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("intlphone", func(fl validator.FieldLevel) bool {
		return intlPhone.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate runs the field rules and returns one error per failing field, or
// nil when the guest is valid.
func (v *Validator) Validate(g *domain.Guest) ValidationErrors {
	rules := guestRules{
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Email:     g.Email,
		Phone:     g.Phone,
		Country:   g.Country,
	}

	err := v.validate.Struct(rules)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "guest", Message: err.Error()}}
	}

	var out ValidationErrors
	for _, fe := range fieldErrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be blank"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "is not a valid email address"
	case "intlphone":
		return "must be in international format, e.g. +79123456789"
	default:
		return "is invalid"
	}
}
