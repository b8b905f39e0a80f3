package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Mobile string  `validate:"required,mobile"`
	Date   string  `validate:"required,isodate"`
	Time   *string `validate:"omitempty,clock"`
}

func TestIsMobile(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"0000000000", true},
		{"987654321", false},
		{"98765432101", false},
		{"98765 43210", false},
		{"+919876543210", false},
		{"98765abcde", false},
		{"", false},
		{"９８７６５４３２１０", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMobile(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	bad := "25:99"
	good := "09:30"

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(ctx, sample{Mobile: "9876543210", Date: "2025-01-01", Time: &good}))
	})

	t.Run("bad mobile", func(t *testing.T) {
		err := Validate(ctx, sample{Mobile: "12345", Date: "2025-01-01"})
		require.Error(t, err)
		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "mobile", fe.Tag)
		assert.Equal(t, ErrInvalidMobile, fe.Message)
	})

	t.Run("bad date", func(t *testing.T) {
		err := Validate(ctx, sample{Mobile: "9876543210", Date: "01/01/2025"})
		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, ErrInvalidDate, fe.Message)
	})

	t.Run("bad time", func(t *testing.T) {
		err := Validate(ctx, sample{Mobile: "9876543210", Date: "2025-01-01", Time: &bad})
		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "clock", fe.Tag)
	})

	t.Run("required", func(t *testing.T) {
		err := Validate(ctx, sample{Date: "2025-01-01"})
		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, ErrFieldRequired, fe.Message)
		assert.Equal(t, "Mobile", fe.Field)
	})
}
