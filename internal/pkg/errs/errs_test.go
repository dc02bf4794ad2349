package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("dropTag", "DT-2026-000001")

		assert.Equal(t, "dropTag", err.ParamName)
		assert.Equal(t, "DT-2026-000001", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: DT-2026-000001", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("package", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: package, ID is: 123 (cause: database connection failed)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		require.ErrorIs(t, err, cause)
	})
}

func TestAlreadyExistsError(t *testing.T) {
	duplicate := errors.New("duplicate key")
	err := errs.NewAlreadyExistsErrorWithCause("package code", "PKG-2026-000001", duplicate)

	assert.Equal(t,
		"object already exists: package code PKG-2026-000001 (cause: duplicate key)",
		err.Error())
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	require.ErrorIs(t, err, duplicate)
	require.ErrorIs(t, fmt.Errorf("add package: %w", err), duplicate)
	assert.NotErrorIs(t, errs.NewAlreadyExistsErrorWithCause("package code", "x", nil), duplicate)
}

func TestValueErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("code", errors.New("bad prefix"))
		assert.Equal(t, "value is invalid: code (cause: bad prefix)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("sealId")
		assert.Equal(t, "value is required: sealId", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("out of range sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("pieces", "1\n2", 1, 10)
		assert.Equal(t, "value is invalid: 1 2 is pieces, min value is 1, max value is 10", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("out of range matches its cause", func(t *testing.T) {
		cause := errors.New("limit")
		err := errs.NewValueIsOutOfRangeError("pieces", 0, 1, 10)
		err.Cause = cause
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, cause)
	})
}

func TestTaxonomyErrors(t *testing.T) {
	errPackageMismatch := errors.New("package mismatch")

	t.Run("invalid state", func(t *testing.T) {
		err := errs.NewInvalidStateError("drop tag", "APPLIED", "print")
		assert.Equal(t, "invalid state: cannot print drop tag in status APPLIED", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("validation failed joins reasons", func(t *testing.T) {
		err := errs.NewValidationFailedError("Mixed grades detected: 4140, 1018", "Package has no items")
		assert.Equal(t,
			"validation failed: Mixed grades detected: 4140, 1018; Package has no items",
			err.Error())
		assert.Len(t, errs.Reasons(err), 2)
	})

	t.Run("identity mismatch matches its cause", func(t *testing.T) {
		err := errs.NewIdentityMismatchErrorWithCause("package", "PKG-2026-000001", "PKG-2026-000002", errPackageMismatch)
		require.ErrorIs(t, err, errs.ErrIdentityMismatch)
		require.ErrorIs(t, err, errPackageMismatch)
		assert.Contains(t, err.Error(), "expected PKG-2026-000001, got PKG-2026-000002")
	})

	t.Run("integrity fault", func(t *testing.T) {
		err := errs.NewIntegrityFaultErrorWithCause("Expected 100 pieces, found 120", nil)
		assert.Equal(t, "integrity fault: Expected 100 pieces, found 120", err.Error())
	})

	t.Run("wrapped errors keep their kind", func(t *testing.T) {
		err := fmt.Errorf("lock and depart: %w", errs.NewIntegrityFaultErrorWithCause("x", nil))
		assert.Equal(t, errs.KindIntegrityFault, errs.KindOf(err))
	})
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		err  error
		kind errs.Kind
	}{
		{errs.NewObjectNotFoundError("tag", "1"), errs.KindNotFound},
		{errs.NewInvalidStateError("tag", "VOID", "apply"), errs.KindInvalidState},
		{errs.NewValidationFailedError("x"), errs.KindValidationFailed},
		{errs.NewIdentityMismatchError("package", "a", "b"), errs.KindIdentityMismatch},
		{errs.NewPolicyLimitExceededErrorWithCause("reprints", 3, nil), errs.KindPolicyLimitExceeded},
		{errs.NewPrerequisiteNotMetError("claim", ""), errs.KindPrerequisiteNotMet},
		{errs.NewValueIsRequiredError("actor"), errs.KindInvalidInput},
		{errors.New("boom"), errs.KindUnknown},
		{nil, errs.KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.kind, errs.KindOf(tc.err))
		})
	}
}
