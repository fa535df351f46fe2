package fixture_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/railboard/internal/adapters/fixture"
	"github.com/samirrijal/railboard/internal/core/domain"
)

func TestSource_GetDepartureBoard(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Charlton.json"), []byte(`{"locationName":"Charlton","trainServices":{"service":[]}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.json"), []byte(`{"locationName":`), 0o644))

	src := fixture.NewSource(dir)

	board, err := src.GetDepartureBoard(context.Background(), "Charlton")
	require.NoError(t, err)
	assert.Equal(t, "Charlton", domain.Deref(board.LocationName))
	assert.Empty(t, board.Services())

	_, err = src.GetDepartureBoard(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, domain.ErrLookupFailure)

	_, err = src.GetDepartureBoard(context.Background(), "Broken")
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fixture.NewSource(t.TempDir()).GetDepartureBoard(ctx, "Charlton")
	assert.ErrorIs(t, err, context.Canceled)
}
