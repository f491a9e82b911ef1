package formx_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdatabase/x/errorx"
	"github.com/avdatabase/x/formx"
)

func TestNewBoundary(t *testing.T) {
	a, b := formx.NewBoundary(), formx.NewBoundary()

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "----FormBoundary"))
	assert.Len(t, a, len("----FormBoundary")+24)
}

func TestCheckBoundary(t *testing.T) {
	t.Run("should accept clean fields", func(t *testing.T) {
		fd := formx.NewFormData(formx.Field{Name: "title", Value: "Map of Springfield"})
		assert.NoError(t, formx.CheckBoundary(formx.DefaultBoundary, fd))
		assert.NoError(t, formx.CheckBoundary(formx.DefaultBoundary, nil))
	})

	t.Run("should reject an empty boundary", func(t *testing.T) {
		assert.True(t, errorx.IsInvalidArgumentError(formx.CheckBoundary("", nil)))
	})

	t.Run("should report every colliding field", func(t *testing.T) {
		fd := formx.NewFormData(
			formx.Field{Name: "title", Value: "x --B1 y"},
			formx.Field{Name: "status", Value: "ok"},
			formx.Field{Name: "B1", Value: "name collides"},
		)

		err := formx.CheckBoundary("B1", fd)
		require.Error(t, err)
		xe, ok := errorx.IsError(err)
		require.True(t, ok)
		assert.Equal(t, errorx.ErrorTypeInvalidArgument, xe.Type)
		require.Len(t, xe.Details, 2)
		assert.Contains(t, xe.Details[0].Message, `"title"`)
		assert.Contains(t, xe.Details[1].Message, `"B1"`)
	})
}
