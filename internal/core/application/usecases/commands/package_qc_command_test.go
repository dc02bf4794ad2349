package commands_test

import (
	"testing"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitPackageForQCCommand(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewSubmitPackageForQCCommand(id, kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, id, cmd.PackageID())

	_, err = commands.NewSubmitPackageForQCCommand(kernel.UUID{}, kernel.SystemActor())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, commands.SubmitPackageForQCCommand{}.Validate(),
		commands.ErrSubmitPackageForQCCommandIsNotConstructed)
}

func TestNewRecordQCDecisionCommand(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("valid decision", func(t *testing.T) {
		cmd, err := commands.NewRecordQCDecisionCommand(id, packaging.DecisionHold, " dented end ", kernel.SystemActor())
		require.NoError(t, err)
		assert.Equal(t, id, cmd.PackageID())
		assert.Equal(t, packaging.DecisionHold, cmd.Decision())
		assert.Equal(t, "dented end", cmd.Notes())
	})

	t.Run("notes are optional", func(t *testing.T) {
		cmd, err := commands.NewRecordQCDecisionCommand(id, packaging.DecisionRelease, "", kernel.SystemActor())
		require.NoError(t, err)
		assert.Empty(t, cmd.Notes())
	})

	t.Run("unknown decision", func(t *testing.T) {
		_, err := commands.NewRecordQCDecisionCommand(id, packaging.QCDecision("MAYBE"), "", kernel.SystemActor())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value", func(t *testing.T) {
		require.ErrorIs(t, commands.RecordQCDecisionCommand{}.Validate(),
			commands.ErrRecordQCDecisionCommandIsNotConstructed)
	})
}

func TestNewSealPackageCommand(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewSealPackageCommand(id, " SEAL-0042 ", kernel.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, id, cmd.PackageID())
	assert.Equal(t, "SEAL-0042", cmd.SealID())

	_, err = commands.NewSealPackageCommand(id, " ", kernel.SystemActor())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewSealPackageCommand(kernel.UUID{}, "SEAL-0042", kernel.SystemActor())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, commands.SealPackageCommand{}.Validate(), commands.ErrSealPackageCommandIsNotConstructed)
}
