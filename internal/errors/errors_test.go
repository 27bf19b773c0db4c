package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquest/gm-api/internal/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.CodeNotFound, "character not found")

	assert.Equal(t, errors.CodeNotFound, err.Code)
	assert.Equal(t, "character not found", err.Message)
	assert.Equal(t, "NOT_FOUND: character not found", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("wraps plain error as internal", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := errors.Wrap(cause, "failed to load action")

		assert.Equal(t, errors.CodeInternal, err.Code)
		assert.ErrorIs(t, err.Unwrap(), cause)
	})

	t.Run("preserves code of wrapped Error", func(t *testing.T) {
		cause := errors.Aborted("action act_1 is not PENDING")
		err := errors.Wrap(cause, "begin processing")

		assert.Equal(t, errors.CodeAborted, err.Code)
		assert.True(t, errors.IsAborted(err))
	})

	t.Run("nil in nil out", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, "anything"))
	})
}

func TestWrapWithCode(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := errors.WrapWithCode(cause, errors.CodeUnavailable, "provider call failed")

	assert.Equal(t, errors.CodeUnavailable, err.Code)
	assert.True(t, errors.IsUnavailable(err))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.CodeOutOfRange, errors.GetCode(errors.OutOfRange("too many dice")))
}

func TestWithMeta(t *testing.T) {
	err := errors.InvalidArgument("bad instruction").
		WithMeta("instruction_index", 2)

	meta := errors.GetMeta(err)
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta["instruction_index"])
}

func TestValidationBuilder(t *testing.T) {
	t.Run("empty builder returns nil", func(t *testing.T) {
		assert.NoError(t, errors.NewValidationBuilder().Build())
	})

	t.Run("required fields produce invalid argument", func(t *testing.T) {
		err := errors.NewValidationBuilder().
			RequiredField("ActionRepo").
			RequiredField("IDGenerator").
			Build()

		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
		assert.Contains(t, err.Error(), "validation failed")
	})
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, errors.CodeNotFound.HTTPStatus())
	assert.Equal(t, 409, errors.CodeAborted.HTTPStatus())
	assert.Equal(t, 412, errors.CodeFailedPrecondition.HTTPStatus())
	assert.Equal(t, 400, errors.CodeOutOfRange.HTTPStatus())
	assert.Equal(t, 503, errors.CodeUnavailable.HTTPStatus())
}
