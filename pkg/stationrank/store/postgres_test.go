package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

func newTestCatalog(t *testing.T) *PGCatalog {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("No test database configured - set TEST_PG_DSN")
	}

	ctx := context.Background()
	catalog, err := NewPGCatalog(ctx, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(catalog.Close)

	require.NoError(t, catalog.Ping(ctx))
	require.NoError(t, catalog.EnsureSchema(ctx))
	_, err = catalog.pool.Exec(ctx, `DELETE FROM stationrank_uploads WHERE owner LIKE 'test-%'`)
	require.NoError(t, err)
	return catalog
}

func TestPGCatalog(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := models.Upload{Key: "uploads/test-alice/1-a.csv", Owner: "test-alice", OriginalName: "a.csv", UploadedAt: base, Size: 5, RowCount: 2}
	newer := models.Upload{Key: "uploads/test-alice/2-b.csv", Owner: "test-alice", OriginalName: "b.csv", UploadedAt: base.Add(time.Hour), Size: 9, RowCount: 4}
	other := models.Upload{Key: "uploads/test-bob/3-c.csv", Owner: "test-bob", OriginalName: "c.csv", UploadedAt: base, Size: 1}

	for _, u := range []models.Upload{older, newer, other} {
		require.NoError(t, catalog.Record(ctx, u))
	}

	uploads, err := catalog.List(ctx, "test-alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Upload{newer, older}, uploads)

	got, err := catalog.Get(ctx, older.Key)
	require.NoError(t, err)
	assert.Equal(t, older, got)

	older.RowCount = 3
	require.NoError(t, catalog.Record(ctx, older))
	got, err = catalog.Get(ctx, older.Key)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RowCount)

	require.NoError(t, catalog.Delete(ctx, older.Key))
	_, err = catalog.Get(ctx, older.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGCatalogWithLibrary(t *testing.T) {
	catalog := newTestCatalog(t)
	ctx := context.Background()
	lib := NewLibrary(NewMemoryStore(), WithCatalog(catalog))

	u, err := lib.Upload(ctx, "test-carol", "plan.csv", []byte("x"), sampleRecords())
	require.NoError(t, err)

	uploads, err := lib.List(ctx, "test-carol")
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, u.Key, uploads[0].Key)
	assert.Equal(t, 2, uploads[0].RowCount)

	require.NoError(t, lib.Delete(ctx, "test-carol", u.Key))
}
