package services_test

import (
	"testing"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/services"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageSealer_Seal(t *testing.T) {
	sealer := services.NewPackageSealer()
	material := itemSpec{"4140", "ROUND_BAR", "A1", 2}

	t.Run("cascades applied tags", func(t *testing.T) {
		pkg := packageWith(t, packaging.DecisionConditional, material)
		a := issue(t, pkg)
		b := issue(t, pkg, a)
		applied(t, pkg, a)
		applied(t, pkg, b)

		cascades, err := sealer.Seal(pkg, []*droptag.DropTag{a, b}, "SEAL-77", "op", now)

		require.NoError(t, err)
		assert.Equal(t, packaging.StatusSealed, pkg.Status())
		assert.Equal(t, "SEAL-77", pkg.SealID())
		assert.Equal(t, droptag.StatusSealed, a.Status())
		assert.Equal(t, droptag.StatusSealed, b.Status())
		assert.Equal(t, []string{a.Code().String() + ":SEALED", b.Code().String() + ":SEALED"}, cascadeCodes(cascades))
	})

	t.Run("lists offenders and changes nothing", func(t *testing.T) {
		pkg := packageWith(t, packaging.DecisionRelease, material)
		a := issue(t, pkg)
		b := issue(t, pkg, a)
		applied(t, pkg, a)

		_, err := sealer.Seal(pkg, []*droptag.DropTag{a, b}, "SEAL-1", "op", now)

		require.ErrorIs(t, err, errs.ErrPrerequisiteNotMet)
		require.ErrorIs(t, err, packaging.ErrTagsNotApplied)
		assert.Contains(t, err.Error(), b.Code().String()+" (DRAFT)")
		assert.NotContains(t, err.Error(), a.Code().String())
		assert.Equal(t, packaging.StatusQCReleased, pkg.Status())
		assert.Equal(t, droptag.StatusApplied, a.Status())
	})

	t.Run("void tags do not count", func(t *testing.T) {
		pkg := packageWith(t, packaging.DecisionRelease, material)
		a := issue(t, pkg)
		b := issue(t, pkg, a)
		applied(t, pkg, a)
		_, err := b.Void("misprint", "", kernel.SystemActor(), now)
		require.NoError(t, err)

		_, err = sealer.Seal(pkg, []*droptag.DropTag{a, b}, "SEAL-2", "op", now)

		require.NoError(t, err)
		assert.Equal(t, droptag.StatusVoid, b.Status())
	})

	t.Run("needs at least one active tag", func(t *testing.T) {
		pkg := packageWith(t, packaging.DecisionRelease, material)

		_, err := sealer.Seal(pkg, nil, "SEAL-3", "op", now)

		require.ErrorIs(t, err, packaging.ErrTagsNotApplied)
	})

	t.Run("QC must have passed", func(t *testing.T) {
		pkg := packageWith(t, packaging.DecisionHold, material)

		_, err := sealer.Seal(pkg, nil, "SEAL-4", "op", now)

		require.ErrorIs(t, err, errs.ErrInvalidState)
	})
}
