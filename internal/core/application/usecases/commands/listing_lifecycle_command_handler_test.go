package commands_test

import (
	"testing"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/station"
	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadedListing returns a LOADED listing with two sealed tags of 60 pieces each.
func loadedListing(h *harness) (kernel.UUID, []commands.GenerateDropTagResult) {
	h.t.Helper()
	tags := []commands.GenerateDropTagResult{h.sealedTag(60), h.sealedTag(60)}
	listingID := h.printedListing(tags[0].DropTagID, tags[1].DropTagID)

	for i, tag := range tags {
		stop := i + 1
		res := h.scan(tag.Code.String(), station.Load, commands.ScanContext{
			StationID: "DOCK-2", ListingID: &listingID, ShipmentRef: "SHP-901", StopNumber: &stop,
		})
		require.True(h.t, res.Success, res.Errors)
	}

	cmd, err := commands.NewConfirmListingLoadedCommand(listingID, h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewConfirmListingLoadedCommandHandler(h.uow, h.clock).Handle(h.ctx, cmd))
	return listingID, tags
}

func (h *harness) listing(id kernel.UUID) *listing.Listing {
	h.t.Helper()
	l, err := h.repos().ListingRepository().Get(h.ctx, id)
	require.NoError(h.t, err)
	return l
}

func (h *harness) tag(id kernel.UUID) *droptag.DropTag {
	h.t.Helper()
	tag, err := h.repos().DropTagRepository().Get(h.ctx, id)
	require.NoError(h.t, err)
	return tag
}

func (h *harness) depart(listingID kernel.UUID) error {
	h.t.Helper()
	cmd, err := commands.NewLockAndDepartListingCommand(listingID, h.actor)
	require.NoError(h.t, err)
	return commands.NewLockAndDepartListingCommandHandler(h.uow, h.clock).Handle(h.ctx, cmd)
}

func TestListingLifecycle_DepartDeliverClose(t *testing.T) {
	h := newHarness(t)
	listingID, tags := loadedListing(h)

	l := h.listing(listingID)
	assert.Equal(t, listing.StatusLoaded, l.Status())
	assert.Equal(t, 120, l.Totals().Pieces)
	assert.Equal(t, 2, l.Totals().Packages)

	require.NoError(t, h.depart(listingID))

	l = h.listing(listingID)
	assert.Equal(t, listing.StatusDeparted, l.Status())
	require.NotNil(t, l.DepartedAt())
	for _, tag := range tags {
		stored := h.tag(tag.DropTagID)
		assert.Equal(t, droptag.StatusShipped, stored.Status())
		pkg, err := h.repos().PackageRepository().Get(h.ctx, stored.PackageID())
		require.NoError(t, err)
		assert.Equal(t, packaging.StatusShipped, pkg.Status())
	}

	departed := h.events(trace.Filter{ResourceID: &listingID})
	last := departed[len(departed)-1]
	assert.Equal(t, trace.ListingDeparted, last.Type())
	cascade, ok := last.Metadata()[trace.MetadataCascade].([]any)
	require.True(t, ok)
	assert.Len(t, cascade, 4)

	// the first tag is dropped at its stop before the listing is confirmed
	stop := 1
	res := h.scan(tags[0].Code.String(), station.Deliver, commands.ScanContext{StopNumber: &stop})
	require.True(t, res.Success, res.Errors)

	deliver, err := commands.NewConfirmListingDeliveredCommand(listingID, listing.ProofOfDelivery{
		Signature: "sig-bytes", SignerName: "J. Ortega", DocumentID: "POD-55",
	}, h.actor)
	require.NoError(t, err)
	require.NoError(t, commands.NewConfirmListingDeliveredCommandHandler(h.uow, h.clock).Handle(h.ctx, deliver))

	l = h.listing(listingID)
	assert.Equal(t, listing.StatusDelivered, l.Status())
	assert.Equal(t, "J. Ortega", l.POD().SignerName)
	for _, tag := range tags {
		assert.Equal(t, droptag.StatusDelivered, h.tag(tag.DropTagID).Status())
	}

	delivered := h.events(trace.Filter{ResourceID: &listingID})
	last = delivered[len(delivered)-1]
	assert.Equal(t, trace.ListingDelivered, last.Type())
	assert.Equal(t, "POD-55", last.Metadata()["podDocumentId"])
	cascade, ok = last.Metadata()[trace.MetadataCascade].([]any)
	require.True(t, ok)
	assert.Len(t, cascade, 2, "already delivered tag is skipped")

	closeCmd, err := commands.NewCloseListingCommand(listingID, h.actor)
	require.NoError(t, err)
	require.NoError(t, commands.NewCloseListingCommandHandler(h.uow, h.clock).Handle(h.ctx, closeCmd))
	l = h.listing(listingID)
	assert.Equal(t, listing.StatusClosed, l.Status())
	require.NotNil(t, l.ClosedAt())

	err = commands.NewCloseListingCommandHandler(h.uow, h.clock).Handle(h.ctx, closeCmd)
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestListingLifecycle_DepartWithStaleTotals(t *testing.T) {
	h := newHarness(t)
	listingID, tags := loadedListing(h)

	// corrupt the stored total the way a bad migration would
	repos := h.repos()
	l, err := repos.ListingRepository().Get(h.ctx, listingID)
	require.NoError(t, err)
	state := l.State()
	state.Totals.Pieces = 100
	stale, err := listing.RestoreListing(state)
	require.NoError(t, err)
	require.NoError(t, repos.ListingRepository().Update(h.ctx, stale))
	before := len(h.events(trace.Filter{ResourceID: &listingID}))

	err = h.depart(listingID)

	require.ErrorIs(t, err, errs.ErrIntegrityFault)
	require.ErrorIs(t, err, listing.ErrTotalsMismatch)
	assert.Equal(t, errs.KindIntegrityFault, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Expected 100 pieces, found 120")

	assert.Equal(t, listing.StatusLoaded, h.listing(listingID).Status())
	for _, tag := range tags {
		assert.Equal(t, droptag.StatusLoaded, h.tag(tag.DropTagID).Status())
	}
	assert.Len(t, h.events(trace.Filter{ResourceID: &listingID}), before)
}

func TestListingLifecycle_ConfirmLoadedCountsOutstanding(t *testing.T) {
	h := newHarness(t)
	first, second := h.sealedTag(5), h.sealedTag(5)
	listingID := h.printedListing(first.DropTagID, second.DropTagID)
	require.True(t, h.scan(first.Code.String(), station.Load, commands.ScanContext{}).Success)

	cmd, err := commands.NewConfirmListingLoadedCommand(listingID, h.actor)
	require.NoError(t, err)
	err = commands.NewConfirmListingLoadedCommandHandler(h.uow, h.clock).Handle(h.ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Equal(t, listing.StatusPrinted, h.listing(listingID).Status())
}

func TestListingLifecycle_StopsMustCoverEveryMember(t *testing.T) {
	h := newHarness(t)
	first, second := h.sealedTag(5), h.sealedTag(5)

	listingID := kernel.NewUUID()
	create, err := commands.NewCreateListingCommand(listingID, "SHP-1", "DOCK-1", h.actor)
	require.NoError(t, err)
	_, err = commands.NewCreateListingCommandHandler(h.uow, h.clock).Handle(h.ctx, create)
	require.NoError(t, err)
	add, err := commands.NewAddListingTagsCommand(listingID, []kernel.UUID{first.DropTagID, second.DropTagID}, h.actor)
	require.NoError(t, err)
	require.NoError(t, commands.NewAddListingTagsCommandHandler(h.uow, h.clock).Handle(h.ctx, add))

	stops, err := commands.NewSetListingStopsCommand(listingID, []listing.Stop{
		{Number: 1, LocationID: "CUST-A", TagIDs: []kernel.UUID{first.DropTagID}},
	}, h.actor)
	require.NoError(t, err)
	err = commands.NewSetListingStopsCommandHandler(h.uow, h.clock).Handle(h.ctx, stops)
	require.ErrorIs(t, err, errs.ErrValidationFailed)
	require.ErrorIs(t, err, listing.ErrStopsNotFullyAssigned)

	finalize, err := commands.NewFinalizeListingCommand(listingID, h.actor)
	require.NoError(t, err)
	err = commands.NewFinalizeListingCommandHandler(h.uow, h.clock).Handle(h.ctx, finalize)
	require.Error(t, err)
	assert.Equal(t, listing.StatusDraft, h.listing(listingID).Status())
}

func TestVoidDropTag_OnListing(t *testing.T) {
	t.Run("open listing releases the tag", func(t *testing.T) {
		h := newHarness(t)
		first, second := h.sealedTag(5), h.sealedTag(7)
		listingID := kernel.NewUUID()
		create, err := commands.NewCreateListingCommand(listingID, "SHP-1", "DOCK-1", h.actor)
		require.NoError(t, err)
		_, err = commands.NewCreateListingCommandHandler(h.uow, h.clock).Handle(h.ctx, create)
		require.NoError(t, err)
		add, err := commands.NewAddListingTagsCommand(listingID, []kernel.UUID{first.DropTagID, second.DropTagID}, h.actor)
		require.NoError(t, err)
		require.NoError(t, commands.NewAddListingTagsCommandHandler(h.uow, h.clock).Handle(h.ctx, add))

		void, err := commands.NewVoidDropTagCommand(first.DropTagID, "crushed by forklift", "", h.actor)
		require.NoError(t, err)
		require.NoError(t, commands.NewVoidDropTagCommandHandler(h.uow, h.clock).Handle(h.ctx, void))

		l := h.listing(listingID)
		assert.False(t, l.HasTag(first.DropTagID))
		assert.Equal(t, 7, l.Totals().Pieces)
		voided := h.tag(first.DropTagID)
		assert.Equal(t, droptag.StatusVoid, voided.Status())
		assert.Nil(t, voided.ListingID())

		events := h.events(trace.Filter{DropTagID: &first.DropTagID})
		last := events[len(events)-1]
		assert.Equal(t, trace.DropTagVoided, last.Type())
		assert.Equal(t, kernel.RoleSupervisor, last.Actor().Role())
	})

	t.Run("printed listing is locked", func(t *testing.T) {
		h := newHarness(t)
		tag := h.sealedTag(5)
		h.printedListing(tag.DropTagID)

		void, err := commands.NewVoidDropTagCommand(tag.DropTagID, "damaged", "", h.actor)
		require.NoError(t, err)
		err = commands.NewVoidDropTagCommandHandler(h.uow, h.clock).Handle(h.ctx, void)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		require.ErrorIs(t, err, listing.ErrListingLocked)
		assert.Equal(t, droptag.StatusSealed, h.tag(tag.DropTagID).Status())
	})

	t.Run("after departure a claim is required", func(t *testing.T) {
		h := newHarness(t)
		listingID, tags := loadedListing(h)
		require.NoError(t, h.depart(listingID))

		void, err := commands.NewVoidDropTagCommand(tags[0].DropTagID, "lost in transit", "", h.actor)
		require.NoError(t, err)
		err = commands.NewVoidDropTagCommandHandler(h.uow, h.clock).Handle(h.ctx, void)
		require.ErrorIs(t, err, droptag.ErrVoidRequiresClaim)

		void, err = commands.NewVoidDropTagCommand(tags[0].DropTagID, "lost in transit", "CLM-8", h.actor)
		require.NoError(t, err)
		require.NoError(t, commands.NewVoidDropTagCommandHandler(h.uow, h.clock).Handle(h.ctx, void))
		assert.Equal(t, droptag.StatusVoid, h.tag(tags[0].DropTagID).Status())
	})
}
