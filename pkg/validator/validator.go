//nolint:gochecknoglobals
package validator

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator - Validator type.
type Validator struct {
	validate *validator.Validate
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// NewValidator - return the shared Validator.
func NewValidator() *Validator {
	validatorOnce.Do(func() {
		validatorInstance = &Validator{validate: validator.New()}
	})

	return validatorInstance
}

// ValidateStruct - apply validation.
// A nil result means str passed every `validate` tag.
func (v *Validator) ValidateStruct(str interface{}) []*ValidationErrorResponse {
	var valErrorsResResult []*ValidationErrorResponse

	err := v.validate.Struct(str)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []*ValidationErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}

	for _, fieldErr := range validationErrors {
		valErrorsResResult = append(valErrorsResResult, &ValidationErrorResponse{
			FailedField: fieldErr.StructNamespace(),
			Tag:         fieldErr.Tag(),
			Value:       fieldErr.Param(),
		})
	}

	return valErrorsResResult
}
