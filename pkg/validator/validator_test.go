package validator_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-micro-sqlite/pkg/validator"
)

type dbSettings struct {
	Path    string `validate:"required"`
	Timeout int    `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	v := validator.NewValidator()
	assert.Same(t, v, validator.NewValidator())

	assert.Nil(t, v.ValidateStruct(dbSettings{Path: "app.db"}))

	errs := v.ValidateStruct(&dbSettings{Timeout: -5})
	require.Len(t, errs, 2)
	assert.Equal(t, "dbSettings.Path", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "dbSettings.Timeout", errs[1].FailedField)
	assert.Equal(t, "gte", errs[1].Tag)
	assert.Equal(t, "0", errs[1].Value)

	errs = v.ValidateStruct(42)
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid", errs[0].Tag)
}

// TestValidationError_JSON checks the error message is the JSON rendering of the failed fields.
func TestValidationError_JSON(t *testing.T) {
	err := validator.NewValidationError(validator.NewValidator().ValidateStruct(dbSettings{}))

	var decoded struct {
		Errors []validator.ValidationErrorResponse `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(err.Error()), &decoded))
	require.Len(t, decoded.Errors, 1)
	assert.Equal(t, "dbSettings.Path", decoded.Errors[0].FailedField)
	assert.Len(t, err.GetErrorsDetails(), 1)
}
