package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// Metadata keys stored on uploaded source blobs.
const (
	MetaOwner        = "owner"
	MetaOriginalName = "original-name"
	MetaUploadedAt   = "uploaded-at"
	MetaRowCount     = "row-count"
)

// Catalog indexes uploads by owner.
type Catalog interface {
	Record(ctx context.Context, u models.Upload) error
	// List returns the owner's uploads, newest first.
	List(ctx context.Context, owner string) ([]models.Upload, error)
	Get(ctx context.Context, key string) (models.Upload, error)
	Delete(ctx context.Context, key string) error
}

// BlobCatalog reads the catalog from the metadata of the source blobs
// themselves. Record and Delete are no-ops because the Library writes and
// removes that metadata with the blobs.
type BlobCatalog struct {
	blobs BlobStore
}

// NewBlobCatalog creates a catalog over blobs.
func NewBlobCatalog(blobs BlobStore) *BlobCatalog {
	return &BlobCatalog{blobs: blobs}
}

// Record implements Catalog.
func (c *BlobCatalog) Record(ctx context.Context, u models.Upload) error { return nil }

// Delete implements Catalog.
func (c *BlobCatalog) Delete(ctx context.Context, key string) error { return nil }

// List implements Catalog.
func (c *BlobCatalog) List(ctx context.Context, owner string) ([]models.Upload, error) {
	prefix, err := OwnerPrefix(owner)
	if err != nil {
		return nil, err
	}
	objects, err := c.blobs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var uploads []models.Upload
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, RowsSuffix) {
			continue
		}
		u, err := c.Get(ctx, obj.Key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	SortNewestFirst(uploads)
	return uploads, nil
}

// Get implements Catalog.
func (c *BlobCatalog) Get(ctx context.Context, key string) (models.Upload, error) {
	obj, err := c.blobs.Head(ctx, key)
	if err != nil {
		return models.Upload{}, err
	}
	return UploadFromObject(obj)
}

// UploadMetadata returns the blob metadata describing u.
func UploadMetadata(u models.Upload) map[string]string {
	return map[string]string{
		MetaOwner:        u.Owner,
		MetaOriginalName: u.OriginalName,
		MetaUploadedAt:   u.UploadedAt.UTC().Format(time.RFC3339Nano),
		MetaRowCount:     strconv.Itoa(u.RowCount),
	}
}

// UploadFromObject rebuilds an Upload from a source blob's metadata.
func UploadFromObject(obj Object) (models.Upload, error) {
	owner, ok := obj.Metadata[MetaOwner]
	if !ok {
		return models.Upload{}, fmt.Errorf("object %s has no upload metadata", obj.Key)
	}
	u := models.Upload{
		Key:          obj.Key,
		Owner:        owner,
		OriginalName: obj.Metadata[MetaOriginalName],
		UploadedAt:   obj.LastModified.UTC(),
		Size:         obj.Size,
	}
	if ts := obj.Metadata[MetaUploadedAt]; ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return models.Upload{}, fmt.Errorf("object %s: bad %s: %w", obj.Key, MetaUploadedAt, err)
		}
		u.UploadedAt = t
	}
	if n := obj.Metadata[MetaRowCount]; n != "" {
		count, err := strconv.Atoi(n)
		if err != nil {
			return models.Upload{}, fmt.Errorf("object %s: bad %s: %w", obj.Key, MetaRowCount, err)
		}
		u.RowCount = count
	}
	return u, nil
}

// SortNewestFirst orders uploads by upload time, newest first, then by key.
func SortNewestFirst(uploads []models.Upload) {
	sort.SliceStable(uploads, func(i, j int) bool {
		if !uploads[i].UploadedAt.Equal(uploads[j].UploadedAt) {
			return uploads[i].UploadedAt.After(uploads[j].UploadedAt)
		}
		return uploads[i].Key < uploads[j].Key
	})
}
