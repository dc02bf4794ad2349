package station_test

import (
	"testing"

	"custody/internal/core/domain/model/station"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range station.Kinds() {
		parsed, err := station.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
		assert.NotEmpty(t, k.NextAction())
	}

	parsed, err := station.ParseKind(" load ")
	require.NoError(t, err)
	assert.Equal(t, station.Load, parsed)

	_, err = station.ParseKind("WELD")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, station.KindUnknown.Validate(), errs.ErrValueIsInvalid)
}
