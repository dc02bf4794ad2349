package droptag_test

import (
	"testing"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)

type fixture struct {
	pkg *packaging.Package
	tag *droptag.DropTag
}

func newFixture(t *testing.T, decision packaging.QCDecision) fixture {
	t.Helper()

	pkgCode, err := kernel.ParseCode(kernel.PackageCodeKind, "PKG-2026-000777")
	require.NoError(t, err)
	pkg, err := packaging.NewPackage(kernel.NewUUID(), pkgCode, "SO-1", "BIN-1", now)
	require.NoError(t, err)
	item, err := packaging.NewItem(kernel.NewUUID(), "4140", "ROUND_BAR", "A12345", 5, kernel.MustWeight("250"), "")
	require.NoError(t, err)
	require.NoError(t, pkg.AddItem(item, now))
	require.NoError(t, pkg.SubmitForQC(now))
	require.NoError(t, pkg.RecordQCDecision(decision, "", "qc", now))

	tagCode, err := kernel.ParseCode(kernel.DropTagCodeKind, "DT-2026-000001")
	require.NoError(t, err)
	heat := "A12345"
	tag, err := droptag.NewDropTag(kernel.NewUUID(), tagCode, pkg.ID(), droptag.Material{
		Grade: "4140", Form: "ROUND_BAR", HeatNumber: &heat, Pieces: 5, Weight: kernel.MustWeight("250"),
	}, now)
	require.NoError(t, err)

	return fixture{pkg: pkg, tag: tag}
}

func (f fixture) printed(t *testing.T) fixture {
	t.Helper()
	require.NoError(t, f.tag.ReadyToPrint(f.pkg, now))
	_, err := f.tag.Print("op-1", now)
	require.NoError(t, err)
	return f
}

func (f fixture) sealed(t *testing.T) fixture {
	t.Helper()
	f.printed(t)
	require.NoError(t, f.tag.Apply(f.pkg, "", "op-1", now))
	require.NoError(t, f.tag.Seal(f.pkg, now))
	require.NoError(t, f.pkg.Seal("SEAL-1", "op-1", now))
	return f
}

func (f fixture) loaded(t *testing.T) fixture {
	t.Helper()
	f.sealed(t)
	_, err := f.pkg.Load(now)
	require.NoError(t, err)
	require.NoError(t, f.tag.Load(f.pkg, now))
	return f
}

func TestNewDropTag(t *testing.T) {
	t.Run("starts as draft", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease)

		assert.Equal(t, droptag.StatusDraft, f.tag.Status())
		require.NotNil(t, f.tag.HeatNumber())
		assert.Equal(t, "A12345", *f.tag.HeatNumber())
		assert.Equal(t, 0, f.tag.ReprintCount())
	})

	t.Run("blank heat is stored as nil", func(t *testing.T) {
		code, _ := kernel.ParseCode(kernel.DropTagCodeKind, "DT-2026-000002")
		blank := " "
		tag, err := droptag.NewDropTag(kernel.NewUUID(), code, kernel.NewUUID(), droptag.Material{
			Grade: "4140", Form: "ROUND_BAR", HeatNumber: &blank, Pieces: 1, Weight: kernel.MustWeight("1"),
		}, now)

		require.NoError(t, err)
		assert.Nil(t, tag.HeatNumber())
	})

	t.Run("rejects a package code", func(t *testing.T) {
		code, _ := kernel.ParseCode(kernel.PackageCodeKind, "PKG-2026-000002")
		_, err := droptag.NewDropTag(kernel.NewUUID(), code, kernel.NewUUID(), droptag.Material{Pieces: 1}, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDropTag_ReadyToPrint(t *testing.T) {
	t.Run("conditional release is enough", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionConditional)
		require.NoError(t, f.tag.ReadyToPrint(f.pkg, now))
		assert.Equal(t, droptag.StatusReadyToPrint, f.tag.Status())
	})

	t.Run("held package blocks printing", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionHold)
		err := f.tag.ReadyToPrint(f.pkg, now)
		require.ErrorIs(t, err, errs.ErrPrerequisiteNotMet)
		assert.Equal(t, droptag.StatusDraft, f.tag.Status())
	})
}

func TestDropTag_Print(t *testing.T) {
	f := newFixture(t, packaging.DecisionRelease)

	_, err := f.tag.Print("op-1", now)
	require.ErrorIs(t, err, errs.ErrInvalidState)

	require.NoError(t, f.tag.ReadyToPrint(f.pkg, now))
	jobID, err := f.tag.Print("op-1", now)
	require.NoError(t, err)
	assert.Regexp(t, `^PJ-[0-9a-f-]{36}$`, jobID)
	assert.Equal(t, droptag.StatusPrinted, f.tag.Status())
	require.NotNil(t, f.tag.PrintedAt())
}

func TestDropTag_Reprint(t *testing.T) {
	t.Run("fourth reprint exceeds the policy and leaves the count alone", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)
		for i := 0; i < droptag.MaxReprints; i++ {
			_, err := f.tag.Reprint(droptag.ReprintDamagedTag, "op-1", now)
			require.NoError(t, err)
		}
		require.Equal(t, 3, f.tag.ReprintCount())

		_, err := f.tag.Reprint(droptag.ReprintTagFellOff, "op-1", now)

		require.ErrorIs(t, err, errs.ErrPolicyLimitExceeded)
		require.ErrorIs(t, err, droptag.ErrReprintLimitExceeded)
		assert.Equal(t, errs.KindPolicyLimitExceeded, errs.KindOf(err))
		assert.Equal(t, 3, f.tag.ReprintCount())
	})

	t.Run("requires a prior print", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease)
		_, err := f.tag.Reprint(droptag.ReprintDamagedTag, "op-1", now)
		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("allowed after the tag moved on", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).sealed(t)
		_, err := f.tag.Reprint(droptag.ReprintIllegiblePrint, "op-1", now)
		require.NoError(t, err)
		assert.Equal(t, droptag.StatusSealed, f.tag.Status())
	})

	t.Run("allowed on a void tag that was printed", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)
		_, err := f.tag.Void("damaged", "", kernel.SystemActor(), now)
		require.NoError(t, err)

		jobID, err := f.tag.Reprint(droptag.ReprintAdditionalCopy, "op-1", now)

		require.NoError(t, err)
		assert.NotEmpty(t, jobID)
		assert.Equal(t, 1, f.tag.ReprintCount())
		assert.Equal(t, droptag.StatusVoid, f.tag.Status())
	})

	t.Run("rejects unknown reasons", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)
		_, err := f.tag.Reprint(droptag.ReprintReason("BORED"), "op-1", now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, 0, f.tag.ReprintCount())
	})
}

func TestDropTag_Apply(t *testing.T) {
	t.Run("matching package scan", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)
		require.NoError(t, f.tag.Apply(f.pkg, "pkg-2026-000777", "op-1", now))
		assert.Equal(t, droptag.StatusApplied, f.tag.Status())
	})

	t.Run("wrong package scan", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)

		err := f.tag.Apply(f.pkg, "PKG-2026-000999", "op-1", now)

		require.ErrorIs(t, err, errs.ErrIdentityMismatch)
		require.ErrorIs(t, err, droptag.ErrPackageMismatch)
		assert.Equal(t, droptag.StatusPrinted, f.tag.Status())
	})

	t.Run("second apply observes APPLIED", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)
		require.NoError(t, f.tag.Apply(f.pkg, "", "op-1", now))
		require.ErrorIs(t, f.tag.Apply(f.pkg, "", "op-2", now), errs.ErrInvalidState)
	})
}

func TestDropTag_Custody(t *testing.T) {
	t.Run("tag cannot stage before its package is sealed", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)
		require.NoError(t, f.tag.Apply(f.pkg, "", "op", now))
		require.NoError(t, f.tag.Seal(f.pkg, now))

		err := f.tag.Stage(f.pkg, now)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, droptag.StatusSealed, f.tag.Status())
	})

	t.Run("tag cannot ship before its package is loaded", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).sealed(t)
		_, err := f.pkg.Stage(now)
		require.NoError(t, err)
		require.NoError(t, f.tag.Load(f.pkg, now))

		require.ErrorIs(t, f.tag.Ship(f.pkg, now), errs.ErrInvalidState)
	})

	t.Run("rejects a foreign package", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)
		other := newFixture(t, packaging.DecisionRelease)

		require.ErrorIs(t, f.tag.Apply(other.pkg, "", "op", now), errs.ErrIdentityMismatch)
	})

	t.Run("table", func(t *testing.T) {
		minimum, gated := droptag.MinimumPackageStatus(droptag.StatusShipped)
		assert.True(t, gated)
		assert.Equal(t, packaging.StatusLoaded, minimum)

		_, gated = droptag.MinimumPackageStatus(droptag.StatusPrinted)
		assert.False(t, gated)
	})
}

func TestDropTag_Void(t *testing.T) {
	supervisor, err := kernel.NewActor("u-1", kernel.RoleOperator)
	require.NoError(t, err)

	t.Run("pre-ship void records a supervisor", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).printed(t)

		recorded, err := f.tag.Void("damaged", "", supervisor, now)

		require.NoError(t, err)
		assert.Equal(t, kernel.RoleSupervisor, recorded.Role())
		assert.Equal(t, droptag.StatusVoid, f.tag.Status())
		assert.False(t, f.tag.IsActive())
	})

	t.Run("post-ship void without claim", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).loaded(t)

		_, err := f.tag.Void("lost in transit", "", supervisor, now)

		require.ErrorIs(t, err, errs.ErrPrerequisiteNotMet)
		require.ErrorIs(t, err, droptag.ErrVoidRequiresClaim)
		assert.Equal(t, droptag.StatusLoaded, f.tag.Status())
	})

	t.Run("post-ship void with claim escalates to manager", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).loaded(t)

		recorded, err := f.tag.Void("lost in transit", "CLM-42", supervisor, now)

		require.NoError(t, err)
		assert.Equal(t, kernel.RoleManager, recorded.Role())
		require.NotNil(t, f.tag.VoidClaimID())
		assert.Equal(t, "CLM-42", *f.tag.VoidClaimID())
	})

	t.Run("delivered tags cannot be voided", func(t *testing.T) {
		f := newFixture(t, packaging.DecisionRelease).loaded(t)
		_, err := f.pkg.Deliver(now)
		require.NoError(t, err)
		require.NoError(t, f.tag.Deliver(f.pkg, now))

		_, err = f.tag.Void("oops", "CLM-1", supervisor, now)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, droptag.StatusDelivered, f.tag.Status())
	})
}

func TestDropTag_Listing(t *testing.T) {
	f := newFixture(t, packaging.DecisionRelease)
	listingA := kernel.NewUUID()
	listingB := kernel.NewUUID()

	require.ErrorIs(t, f.tag.AssignStop(1, now), errs.ErrInvalidState)

	require.NoError(t, f.tag.AssignToListing(listingA, now))
	require.NoError(t, f.tag.AssignToListing(listingA, now))

	err := f.tag.AssignToListing(listingB, now)
	require.ErrorIs(t, err, droptag.ErrOnAnotherListing)

	require.NoError(t, f.tag.AssignStop(2, now))
	require.Equal(t, 2, *f.tag.RouteStop())

	require.ErrorIs(t, f.tag.ClearListing(listingB, now), errs.ErrIdentityMismatch)
	require.NoError(t, f.tag.ClearListing(listingA, now))
	assert.Nil(t, f.tag.ListingID())
	assert.Nil(t, f.tag.RouteStop())
}

func TestRestoreDropTag(t *testing.T) {
	f := newFixture(t, packaging.DecisionRelease).printed(t)

	restored, err := droptag.RestoreDropTag(f.tag.State())

	require.NoError(t, err)
	assert.True(t, restored.IsEqual(f.tag))
	assert.Equal(t, droptag.StatusPrinted, restored.PersistedStatus())

	state := f.tag.State()
	state.ReprintCount = 4
	_, err = droptag.RestoreDropTag(state)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestTagIdentifier(t *testing.T) {
	ti, err := droptag.NewTagIdentifier(kernel.NewUUID(), kernel.NewUUID(), droptag.IdentifierRFID, " e2801160 ", now)
	require.NoError(t, err)
	assert.Equal(t, "E2801160", ti.Value())

	_, err = droptag.NewTagIdentifier(kernel.NewUUID(), kernel.NewUUID(), droptag.IdentifierType("QR"), "", now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
