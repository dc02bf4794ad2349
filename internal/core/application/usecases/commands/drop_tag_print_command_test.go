package commands_test

import (
	"testing"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadyDropTagToPrintCommand(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewReadyDropTagToPrintCommand(id, kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, id, cmd.DropTagID())

	_, err = commands.NewReadyDropTagToPrintCommand(kernel.UUID{}, kernel.SystemActor())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, commands.ReadyDropTagToPrintCommand{}.Validate(),
		commands.ErrReadyDropTagToPrintCommandIsNotConstructed)
}

func TestNewPrintDropTagCommand(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewPrintDropTagCommand(id, kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, id, cmd.DropTagID())
	assert.Equal(t, kernel.SystemActor(), cmd.Actor())

	_, err = commands.NewPrintDropTagCommand(id, kernel.Actor{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	require.ErrorIs(t, commands.PrintDropTagCommand{}.Validate(), commands.ErrPrintDropTagCommandIsNotConstructed)
}

func TestNewReprintDropTagCommand(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("known reason", func(t *testing.T) {
		cmd, err := commands.NewReprintDropTagCommand(id, droptag.ReprintDamagedTag, kernel.SystemActor())
		require.NoError(t, err)
		assert.Equal(t, id, cmd.DropTagID())
		assert.Equal(t, droptag.ReprintDamagedTag, cmd.Reason())
	})

	t.Run("unknown reason", func(t *testing.T) {
		_, err := commands.NewReprintDropTagCommand(id, droptag.ReprintReason("LOST"), kernel.SystemActor())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value", func(t *testing.T) {
		require.ErrorIs(t, commands.ReprintDropTagCommand{}.Validate(), commands.ErrReprintDropTagCommandIsNotConstructed)
	})
}
