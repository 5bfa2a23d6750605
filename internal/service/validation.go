package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

// NewValidator returns a validator with the tracker's custom tags registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	registerTrackerValidations(validate)
	return validate
}

func registerTrackerValidations(validate *validator.Validate) {
	_ = validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDifficulty(fl.Field().String())
		return err == nil
	})
}

func ensureValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		return NewValidator()
	}
	registerTrackerValidations(validate)
	return validate
}

func validationError(err error) error {
	return appErrors.WrapAs(err, appErrors.ErrValidation, "invalid payload")
}
