package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/telemetry"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestLibrary(t *testing.T, opts ...LibraryOption) (*Library, *MemoryStore) {
	t.Helper()
	blobs := NewMemoryStore()
	clock := &testClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	n := 0
	lib := NewLibrary(blobs, append([]LibraryOption{WithClock(clock.now)}, opts...)...)
	lib.newID = func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
	return lib, blobs
}

func sampleRecords() []models.Record {
	return []models.Record{
		models.NewRecord([]string{"מרכז עבודה", "כמות פק\"ע", "מועד סיום צפוי"}, []interface{}{"TU", int64(40), "01.02.2024"}),
		models.NewRecord([]string{"מרכז עבודה", "כמות פק\"ע", "מועד סיום צפוי"}, []interface{}{"QC", 2.5, int64(45000)}),
	}
}

func TestUploadKey(t *testing.T) {
	tests := []struct {
		owner, id, name string
		expected        string
		wantErr         bool
	}{
		{"alice", "u1", "plan.xlsx", "uploads/alice/u1-plan.xlsx", false},
		{"alice", "u1", `C:\Users\a\plan.csv`, "uploads/alice/u1-plan.csv", false},
		{"alice", "u1", "../../etc/passwd", "uploads/alice/u1-passwd", false},
		{"alice", "u1", "", "uploads/alice/u1-upload", false},
		{"", "u1", "plan.xlsx", "", true},
		{"a/b", "u1", "plan.xlsx", "", true},
		{"..", "u1", "plan.xlsx", "", true},
	}
	for _, tt := range tests {
		got, err := UploadKey(tt.owner, tt.id, tt.name)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidOwner, "owner %q", tt.owner)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestLibraryRoundTrip(t *testing.T) {
	ctx := context.Background()
	lib, blobs := newTestLibrary(t)

	source := []byte("xlsx bytes")
	u, err := lib.Upload(ctx, "alice", "תוכנית.xlsx", source, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "uploads/alice/id1-תוכנית.xlsx", u.Key)
	assert.Equal(t, 2, u.RowCount)
	assert.Equal(t, int64(len(source)), u.Size)

	obj, err := blobs.Head(ctx, u.Key)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", obj.ContentType)

	got, err := lib.Get(ctx, "alice", u.Key)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	rows, err := lib.Rows(ctx, "alice", u.Key)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleRecords(), rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	body, meta, err := lib.Download(ctx, "alice", u.Key)
	require.NoError(t, err)
	assert.Equal(t, source, body)
	assert.Equal(t, "תוכנית.xlsx", meta.OriginalName)

	require.NoError(t, lib.Delete(ctx, "alice", u.Key))
	_, err = blobs.Head(ctx, RowsKey(u.Key))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = lib.Get(ctx, "alice", u.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, lib.Delete(ctx, "alice", u.Key), ErrNotFound)
}

func TestLibraryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		_, err := lib.Upload(ctx, "alice", name, []byte(name), nil)
		require.NoError(t, err)
	}
	_, err := lib.Upload(ctx, "bob", "other.csv", []byte("x"), nil)
	require.NoError(t, err)

	uploads, err := lib.List(ctx, "alice")
	require.NoError(t, err)
	var names []string
	for _, u := range uploads {
		names = append(names, u.OriginalName)
		assert.Equal(t, "alice", u.Owner)
	}
	assert.Equal(t, []string{"c.csv", "b.csv", "a.csv"}, names)

	empty, err := lib.List(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLibraryOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	u, err := lib.Upload(ctx, "alice", "a.csv", []byte("a"), nil)
	require.NoError(t, err)

	_, err = lib.Get(ctx, "bob", u.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = lib.Rows(ctx, "bob", u.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, lib.Delete(ctx, "bob", u.Key), ErrNotFound)
	_, err = lib.Get(ctx, "alice", RowsKey(u.Key))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = lib.List(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

type recordingCatalog struct {
	uploads map[string]models.Upload
	deleted []string
}

func (c *recordingCatalog) Record(ctx context.Context, u models.Upload) error {
	c.uploads[u.Key] = u
	return nil
}

func (c *recordingCatalog) List(ctx context.Context, owner string) ([]models.Upload, error) {
	var out []models.Upload
	for _, u := range c.uploads {
		if u.Owner == owner {
			out = append(out, u)
		}
	}
	return out, nil
}

func (c *recordingCatalog) Get(ctx context.Context, key string) (models.Upload, error) {
	u, ok := c.uploads[key]
	if !ok {
		return models.Upload{}, ErrNotFound
	}
	return u, nil
}

func (c *recordingCatalog) Delete(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.uploads, key)
	return nil
}

func TestLibraryWithCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := &recordingCatalog{uploads: map[string]models.Upload{}}
	lib, _ := newTestLibrary(t, WithCatalog(catalog))

	first, err := lib.Upload(ctx, "alice", "a.csv", []byte("a"), nil)
	require.NoError(t, err)
	second, err := lib.Upload(ctx, "alice", "b.csv", []byte("b"), nil)
	require.NoError(t, err)

	uploads, err := lib.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, second.Key, uploads[0].Key)

	require.NoError(t, lib.Delete(ctx, "alice", first.Key))
	assert.Equal(t, []string{first.Key}, catalog.deleted)
}

func TestLibraryTelemetry(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	lib, _ := newTestLibrary(t,
		WithMetrics(telemetry.NewMetrics("library-test")),
		WithEvents(telemetry.NewTracker(logger)),
		WithLibraryLogger(logger),
	)

	before := testutil.ToFloat64(telemetry.StoreOperationsTotal.WithLabelValues("memory", "upload", telemetry.StatusOK))
	u, err := lib.Upload(ctx, "alice", "a.csv", []byte("a"), nil)
	require.NoError(t, err)
	_, _, err = lib.Download(ctx, "alice", u.Key)
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(telemetry.StoreOperationsTotal.WithLabelValues("memory", "upload", telemetry.StatusOK)))

	events := logs.FilterMessage("Event").All()
	require.Len(t, events, 2)
	assert.Equal(t, telemetry.ActionFileUpload, events[0].ContextMap()["action"])
	assert.Equal(t, telemetry.ActionFileDownload, events[1].ContextMap()["action"])
	assert.Equal(t, 1, logs.FilterMessage("Stored upload").Len())
}

type failingStore struct{ *MemoryStore }

func (failingStore) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	return errors.New("bucket unavailable")
}

func TestLibraryUploadError(t *testing.T) {
	lib := NewLibrary(failingStore{NewMemoryStore()})
	_, err := lib.Upload(context.Background(), "alice", "a.csv", []byte("a"), nil)
	assert.ErrorContains(t, err, "bucket unavailable")
}

// sourceFailingStore accepts the rows blob and rejects the source blob.
type sourceFailingStore struct{ *MemoryStore }

func (s sourceFailingStore) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	if metadata != nil {
		return errors.New("boom")
	}
	return s.MemoryStore.Put(ctx, key, body, contentType, metadata)
}

type failingCatalog struct{ recordingCatalog }

func (failingCatalog) Record(ctx context.Context, u models.Upload) error {
	return errors.New("catalog down")
}

func TestLibraryUploadRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("source put fails", func(t *testing.T) {
		blobs := NewMemoryStore()
		lib := NewLibrary(sourceFailingStore{blobs})
		_, err := lib.Upload(ctx, "alice", "plan.csv", []byte("a"), sampleRecords())
		assert.ErrorContains(t, err, "boom")

		left, err := blobs.List(ctx, UploadsRoot+"/")
		require.NoError(t, err)
		assert.Empty(t, left)
	})

	t.Run("catalog record fails", func(t *testing.T) {
		blobs := NewMemoryStore()
		lib := NewLibrary(blobs, WithCatalog(&failingCatalog{}))
		_, err := lib.Upload(ctx, "alice", "plan.csv", []byte("a"), sampleRecords())
		assert.ErrorContains(t, err, "catalog down")

		left, err := blobs.List(ctx, UploadsRoot+"/")
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestUploadFromObject(t *testing.T) {
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u, err := UploadFromObject(Object{
		Key:          "uploads/a/x",
		Size:         10,
		LastModified: modified,
		Metadata:     map[string]string{MetaOwner: "a", MetaRowCount: "7"},
	})
	require.NoError(t, err)
	assert.Equal(t, modified, u.UploadedAt)
	assert.Equal(t, 7, u.RowCount)

	_, err = UploadFromObject(Object{Key: "k"})
	assert.Error(t, err)

	_, err = UploadFromObject(Object{Key: "k", Metadata: map[string]string{MetaOwner: "a", MetaRowCount: "many"}})
	assert.Error(t, err)
}
