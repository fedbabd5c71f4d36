package validator

import (
	"regexp"

	"medical-appointment-api/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

var (
	crmPattern = regexp.MustCompile(`^\d{4,6}$`)
	cpfPattern = regexp.MustCompile(`^\d{11}$`)
	cepPattern = regexp.MustCompile(`^\d{8}$`)
	ufPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("crm", matches(crmPattern))
	_ = v.RegisterValidation("cpf", matches(cpfPattern))
	_ = v.RegisterValidation("cep", matches(cepPattern))
	_ = v.RegisterValidation("uf", matches(ufPattern))
	_ = v.RegisterValidation("specialty", func(fl validator.FieldLevel) bool {
		return entity.Specialty(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("cancellation_reason", func(fl validator.FieldLevel) bool {
		return entity.CancellationReason(fl.Field().String()).IsValid()
	})

	return &CustomValidator{
		validator: v,
	}
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "crm":
				errors[field] = field + " must have 4 to 6 digits"
			case "cpf":
				errors[field] = field + " must have 11 digits"
			case "cep":
				errors[field] = field + " must have 8 digits"
			case "uf":
				errors[field] = field + " must be a 2-letter uppercase state code"
			case "specialty":
				errors[field] = field + " must be a known specialty"
			case "cancellation_reason":
				errors[field] = field + " must be a known cancellation reason"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
