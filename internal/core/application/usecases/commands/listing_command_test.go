package commands_test

import (
	"testing"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddListingTagsCommand(t *testing.T) {
	listingID := kernel.NewUUID()
	tagIDs := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}

	cmd, err := commands.NewAddListingTagsCommand(listingID, tagIDs, kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, listingID, cmd.ListingID())
	assert.Equal(t, tagIDs, cmd.TagIDs())

	cmd.TagIDs()[0] = kernel.NewUUID()
	assert.Equal(t, tagIDs[0], cmd.TagIDs()[0])

	_, err = commands.NewAddListingTagsCommand(listingID, nil, kernel.SystemActor())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewAddListingTagsCommand(listingID, []kernel.UUID{{}}, kernel.SystemActor())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, commands.AddListingTagsCommand{}.Validate(), commands.ErrAddListingTagsCommandIsNotConstructed)
}

func TestNewRemoveListingTagsCommand(t *testing.T) {
	listingID := kernel.NewUUID()

	cmd, err := commands.NewRemoveListingTagsCommand(listingID, []kernel.UUID{kernel.NewUUID()}, kernel.SystemActor())
	require.NoError(t, err)
	assert.Len(t, cmd.TagIDs(), 1)

	_, err = commands.NewRemoveListingTagsCommand(kernel.UUID{}, []kernel.UUID{kernel.NewUUID()}, kernel.SystemActor())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, commands.RemoveListingTagsCommand{}.Validate(),
		commands.ErrRemoveListingTagsCommandIsNotConstructed)
}

func TestNewSetListingStopsCommand(t *testing.T) {
	listingID, tagID := kernel.NewUUID(), kernel.NewUUID()
	stops := []listing.Stop{{Number: 1, LocationID: "CUST-9", TagIDs: []kernel.UUID{tagID}}}

	cmd, err := commands.NewSetListingStopsCommand(listingID, stops, kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, listingID, cmd.ListingID())
	require.Len(t, cmd.Stops(), 1)

	stops[0].TagIDs[0] = kernel.NewUUID()
	assert.Equal(t, tagID, cmd.Stops()[0].TagIDs[0])

	_, err = commands.NewSetListingStopsCommand(listingID, nil, kernel.SystemActor())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	require.ErrorIs(t, commands.SetListingStopsCommand{}.Validate(), commands.ErrSetListingStopsCommandIsNotConstructed)
}

func TestNewPrintListingCommand(t *testing.T) {
	listingID := kernel.NewUUID()
	docs := listing.Documents{ManifestID: "MAN-1", COCID: "COC-1", MTRID: "MTR-1"}

	cmd, err := commands.NewPrintListingCommand(listingID, docs, kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, listingID, cmd.ListingID())
	assert.Equal(t, docs, cmd.Documents())

	missing := docs
	missing.MTRID = ""
	_, err = commands.NewPrintListingCommand(listingID, missing, kernel.SystemActor())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	require.ErrorIs(t, commands.PrintListingCommand{}.Validate(), commands.ErrPrintListingCommandIsNotConstructed)
}

func TestNewConfirmListingDeliveredCommand(t *testing.T) {
	listingID := kernel.NewUUID()
	pod := listing.ProofOfDelivery{Signature: "sig", SignerName: "J. Ortiz", DocumentID: "POD-1"}

	cmd, err := commands.NewConfirmListingDeliveredCommand(listingID, pod, kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, listingID, cmd.ListingID())
	assert.Equal(t, pod, cmd.POD())

	pod.SignerName = "  "
	_, err = commands.NewConfirmListingDeliveredCommand(listingID, pod, kernel.SystemActor())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	require.ErrorIs(t, commands.ConfirmListingDeliveredCommand{}.Validate(),
		commands.ErrConfirmListingDeliveredCommandIsNotConstructed)
}

func TestListingLifecycleCommands(t *testing.T) {
	listingID := kernel.NewUUID()
	actor := kernel.SystemActor()

	tests := []struct {
		name           string
		build          func(kernel.UUID) (interface{ Validate() error }, error)
		zero           interface{ Validate() error }
		notConstructed error
	}{
		{
			name: "finalize",
			build: func(id kernel.UUID) (interface{ Validate() error }, error) {
				return commands.NewFinalizeListingCommand(id, actor)
			},
			zero:           commands.FinalizeListingCommand{},
			notConstructed: commands.ErrFinalizeListingCommandIsNotConstructed,
		},
		{
			name: "confirm loaded",
			build: func(id kernel.UUID) (interface{ Validate() error }, error) {
				return commands.NewConfirmListingLoadedCommand(id, actor)
			},
			zero:           commands.ConfirmListingLoadedCommand{},
			notConstructed: commands.ErrConfirmListingLoadedCommandIsNotConstructed,
		},
		{
			name: "lock and depart",
			build: func(id kernel.UUID) (interface{ Validate() error }, error) {
				return commands.NewLockAndDepartListingCommand(id, actor)
			},
			zero:           commands.LockAndDepartListingCommand{},
			notConstructed: commands.ErrLockAndDepartListingCommandIsNotConstructed,
		},
		{
			name: "close",
			build: func(id kernel.UUID) (interface{ Validate() error }, error) {
				return commands.NewCloseListingCommand(id, actor)
			},
			zero:           commands.CloseListingCommand{},
			notConstructed: commands.ErrCloseListingCommandIsNotConstructed,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := tc.build(listingID)
			require.NoError(t, err)
			require.NoError(t, cmd.Validate())

			_, err = tc.build(kernel.UUID{})
			require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

			require.ErrorIs(t, tc.zero.Validate(), tc.notConstructed)
		})
	}
}
