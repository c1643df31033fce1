package mcourse

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotBlankIsRegistered(t *testing.T) {
	registerValidators()

	err := binding.Validator.ValidateStruct(&CourseRequest{Name: "   ", Code: "CS3203", Semester: "AY24"})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "notblank", fieldErrs[0].Tag())
	assert.Equal(t, "name", fieldErrs[0].Field())

	assert.NoError(t, binding.Validator.ValidateStruct(&CourseRequest{Name: "SWE", Code: "CS3203", Semester: "AY24"}))
}
