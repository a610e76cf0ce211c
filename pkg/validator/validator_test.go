package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Date    string `json:"date" validate:"required,date"`
	Time    string `json:"time" validate:"required,clock"`
	Weekday *int   `json:"weekday,omitempty" validate:"omitempty,weekday"`
	Day     int    `json:"day" validate:"weekday"`
}

func intPtr(i int) *int { return &i }

func TestValidate_Accepts(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&sample{Date: "2025-06-03", Time: "09:40", Weekday: intPtr(6), Day: 0}))
	assert.NoError(t, v.Validate(&sample{Date: "2024-02-29", Time: "00:00"}))
}

func TestValidate_FormatsErrorsByJSONName(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Date: "2025-02-30", Time: "9h", Weekday: intPtr(7), Day: -1})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Contains(t, errs["date"], "YYYY-MM-DD")
	assert.Contains(t, errs["time"], "HH:MM")
	assert.Contains(t, errs["weekday"], "0 (Monday)")
	assert.Contains(t, errs["day"], "0 (Monday)")
}

func TestValidate_Required(t *testing.T) {
	v := NewValidator()

	errs := v.FormatValidationErrors(v.Validate(&sample{}))
	assert.Equal(t, "date is required", errs["date"])
	assert.Equal(t, "time is required", errs["time"])
}
