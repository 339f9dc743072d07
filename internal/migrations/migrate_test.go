package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printcost/internal/db"
)

func TestUpReachesLatestVersion(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, Up(ctx, database))
	version, err := Version(database)
	require.NoError(t, err)
	require.EqualValues(t, 2, version)

	require.NoError(t, Up(ctx, database), "second run is a no-op")
	version, err = Version(database)
	require.NoError(t, err)
	require.EqualValues(t, 2, version)
}
