package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/telemetry"
)

const (
	// UploadsRoot is the key prefix of all uploads.
	UploadsRoot = "uploads"
	// RowsSuffix marks the blob holding an upload's decoded rows.
	RowsSuffix = ".rows.json"
)

// OwnerPrefix returns the key prefix of owner's uploads.
func OwnerPrefix(owner string) (string, error) {
	if owner == "" || owner == "." || owner == ".." || strings.ContainsAny(owner, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOwner, owner)
	}
	return UploadsRoot + "/" + owner + "/", nil
}

// UploadKey builds the blob key of a new upload.
func UploadKey(owner, id, fileName string) (string, error) {
	prefix, err := OwnerPrefix(owner)
	if err != nil {
		return "", err
	}
	base := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return prefix + id + "-" + base, nil
}

// RowsKey returns the key of the rows blob belonging to the upload at key.
func RowsKey(key string) string {
	return key + RowsSuffix
}

// Library stores uploaded spreadsheets for later re-ranking.
type Library struct {
	blobs   BlobStore
	catalog Catalog
	metrics *telemetry.Metrics
	events  *telemetry.Tracker
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithCatalog indexes uploads in c instead of blob metadata.
func WithCatalog(c Catalog) LibraryOption {
	return func(l *Library) { l.catalog = c }
}

// WithMetrics records store operation metrics.
func WithMetrics(m *telemetry.Metrics) LibraryOption {
	return func(l *Library) { l.metrics = m }
}

// WithEvents emits upload and download analytics events.
func WithEvents(t *telemetry.Tracker) LibraryOption {
	return func(l *Library) { l.events = t }
}

// WithLibraryLogger sets the logger.
func WithLibraryLogger(logger *zap.Logger) LibraryOption {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the upload timestamp source.
func WithClock(now func() time.Time) LibraryOption {
	return func(l *Library) { l.now = now }
}

// NewLibrary creates a Library over blobs.
func NewLibrary(blobs BlobStore, opts ...LibraryOption) *Library {
	l := &Library{
		blobs:  blobs,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.catalog == nil {
		l.catalog = NewBlobCatalog(blobs)
	}
	return l
}

// Upload stores the source file data under owner together with its decoded
// records.
func (l *Library) Upload(ctx context.Context, owner, fileName string, data []byte, records []models.Record) (models.Upload, error) {
	key, err := UploadKey(owner, l.newID(), fileName)
	if err != nil {
		return models.Upload{}, err
	}
	if records == nil {
		records = []models.Record{}
	}
	rowsJSON, err := json.Marshal(records)
	if err != nil {
		return models.Upload{}, fmt.Errorf("encode rows: %w", err)
	}

	u := models.Upload{
		Key:          key,
		Owner:        owner,
		OriginalName: fileName,
		UploadedAt:   l.now().UTC(),
		Size:         int64(len(data)),
		RowCount:     len(records),
	}

	var written []string
	err = l.observe("upload", func() error {
		if err := l.blobs.Put(ctx, RowsKey(key), rowsJSON, "application/json", nil); err != nil {
			return err
		}
		written = append(written, RowsKey(key))
		if err := l.blobs.Put(ctx, key, data, contentType(fileName), UploadMetadata(u)); err != nil {
			return err
		}
		written = append(written, key)
		return l.catalog.Record(ctx, u)
	})
	if err != nil {
		l.rollback(ctx, written)
		return models.Upload{}, fmt.Errorf("upload %s: %w", fileName, err)
	}

	l.logger.Info("Stored upload",
		zap.String("key", key),
		zap.String("owner", owner),
		zap.Int("rows", u.RowCount),
		zap.Int64("bytes", u.Size),
	)
	l.events.TrackFileUpload(fileName)
	return u, nil
}

// List returns owner's uploads, newest first.
func (l *Library) List(ctx context.Context, owner string) ([]models.Upload, error) {
	if _, err := OwnerPrefix(owner); err != nil {
		return nil, err
	}
	var uploads []models.Upload
	err := l.observe("list", func() error {
		var err error
		uploads, err = l.catalog.List(ctx, owner)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	SortNewestFirst(uploads)
	return uploads, nil
}

// Get returns the upload at key if it belongs to owner.
func (l *Library) Get(ctx context.Context, owner, key string) (models.Upload, error) {
	if err := checkOwner(owner, key); err != nil {
		return models.Upload{}, err
	}
	var u models.Upload
	err := l.observe("get", func() error {
		var err error
		u, err = l.catalog.Get(ctx, key)
		return err
	})
	if err != nil {
		return models.Upload{}, err
	}
	return u, nil
}

// Rows returns the decoded records stored with the upload at key.
func (l *Library) Rows(ctx context.Context, owner, key string) ([]models.Record, error) {
	if err := checkOwner(owner, key); err != nil {
		return nil, err
	}
	var body []byte
	err := l.observe("rows", func() error {
		var err error
		body, _, err = l.blobs.Get(ctx, RowsKey(key))
		return err
	})
	if err != nil {
		return nil, err
	}

	var records []models.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode rows of %s: %w", key, err)
	}
	return records, nil
}

// Download returns the original file stored at key.
func (l *Library) Download(ctx context.Context, owner, key string) ([]byte, models.Upload, error) {
	if err := checkOwner(owner, key); err != nil {
		return nil, models.Upload{}, err
	}
	var body []byte
	var obj Object
	err := l.observe("download", func() error {
		var err error
		body, obj, err = l.blobs.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, models.Upload{}, err
	}
	u, err := UploadFromObject(obj)
	if err != nil {
		return nil, models.Upload{}, err
	}
	l.events.TrackFileDownload(u.OriginalName)
	return body, u, nil
}

// Delete removes the upload at key with its rows and catalog entry.
func (l *Library) Delete(ctx context.Context, owner, key string) error {
	if err := checkOwner(owner, key); err != nil {
		return err
	}
	err := l.observe("delete", func() error {
		if err := l.blobs.Delete(ctx, key); err != nil {
			return err
		}
		if err := l.blobs.Delete(ctx, RowsKey(key)); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return l.catalog.Delete(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	l.logger.Info("Deleted upload", zap.String("key", key))
	return nil
}

// rollback removes the blobs of a failed upload. Failures are logged only.
func (l *Library) rollback(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := l.blobs.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			l.logger.Warn("Failed to remove partial upload",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

func (l *Library) observe(operation string, fn func() error) error {
	timer := telemetry.NewTimer()
	err := fn()
	if l.metrics != nil {
		l.metrics.RecordStoreOp(l.blobs.Name(), operation, err, timer.Duration())
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		l.logger.Warn("Store operation failed",
			zap.String("backend", l.blobs.Name()),
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	return err
}

func checkOwner(owner, key string) error {
	prefix, err := OwnerPrefix(owner)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(key, prefix) || strings.HasSuffix(key, RowsSuffix) {
		return fmt.Errorf("upload %s: %w", key, ErrNotFound)
	}
	return nil
}

func contentType(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	}
	if ct := mime.TypeByExtension(path.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
