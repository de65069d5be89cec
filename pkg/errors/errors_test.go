// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"bad input", errors.ErrCodeInvalidBirthInput, "month 13 is out of range"},
		{"catalog", errors.ErrCodeCatalogMissingEntry, "seasonal entry Jia/Zi missing"},
		{"root finding", errors.ErrCodeRootNotBracketed, "no sign change for 315°"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.ErrCodeYearOutOfRange, "year %d outside [%d, %d]", 1200, 1600, 2400)
	assert.Equal(t, "year 1200 outside [1600, 2400]", ae.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("yaml: line 3: mapping values are not allowed")
	wrapped := errors.Wrap(root, errors.ErrCodeCatalogInvalid, "parse relation catalog")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeCatalogInvalid, wrapped.Code)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
	assert.True(t, stderrors.Is(wrapped, root))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeRootNotBracketed, "no bracket")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.ErrCodeRootNotBracketed, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeRootNotBracketed, "no bracket")
	outer := errors.Wrap(inner, errors.CodeInternal, "chart failed")

	assert.Equal(t, errors.CodeInternal, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError / TestWithDetail
// ─────────────────────────────────────────────────────────────────────────────

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeInvalidBirthInput, "invalid day")
	assert.Equal(t, "[INP_001] invalid day", ae.Error())

	detailed := ae.WithDetail("day=31 month=2")
	assert.Equal(t, "[INP_001] invalid day: day=31 month=2", detailed.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the original")
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

func TestWithCause_AttachesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("unknown time zone Mars/Olympus")
	ae := errors.New(errors.ErrCodeTimezoneInvalid, "timezone").WithCause(cause)
	assert.True(t, stderrors.Is(ae, cause))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestIsCode / TestGetCode
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_ThroughFmtWrapping(t *testing.T) {
	t.Parallel()

	ae := errors.Unsupported("lunar input")
	err := fmt.Errorf("compute chart: %w", ae)

	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedCombination))
	assert.False(t, errors.IsCode(err, errors.ErrCodeInvalidBirthInput))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeInvalidBirthInput, errors.GetCode(errors.InvalidInput("bad")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(fmt.Errorf("wrap: %w", errors.Internal("x"))))
}

//Personal.AI order the ending
