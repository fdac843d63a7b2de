package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

type submitRequest struct {
	StaffMode string `json:"staffMode" validate:"required,oneof=auto manual"`
	StaffID   string `json:"staffId" validate:"required_if=StaffMode manual"`
	Weight    int    `json:"weight" validate:"gte=1"`
}

func TestCheck_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := Check(v, submitRequest{StaffMode: "manual", Weight: 0})
	require.ErrorIs(t, err, apperr.ErrValidation)

	fields, ok := apperr.Fields(err)
	require.True(t, ok)
	require.Equal(t, "is required in this mode", fields["staffId"])
	require.Equal(t, "must be at least 1", fields["weight"])
}

func TestCheck_Passes(t *testing.T) {
	require.NoError(t, Check(New(), submitRequest{StaffMode: "auto", Weight: 3}))
}

func TestCheck_OneOf(t *testing.T) {
	err := Check(New(), submitRequest{StaffMode: "random", Weight: 3})
	fields, ok := apperr.Fields(err)
	require.True(t, ok)
	require.Equal(t, "must be one of [auto manual]", fields["staffMode"])
}
