package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process BlobStore for tests and for programs that
// embed a Library for the lifetime of one process. Its contents are lost on
// exit, so the CLI refuses it for the files commands. It is safe for
// concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	body []byte
	info Object
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// Name implements BlobStore.
func (s *MemoryStore) Name() string { return "memory" }

// Put implements BlobStore.
func (s *MemoryStore) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{
		body: append([]byte(nil), body...),
		info: Object{
			Key:          key,
			Size:         int64(len(body)),
			ContentType:  contentType,
			LastModified: s.now().UTC(),
			Metadata:     meta,
		},
	}
	return nil
}

// Get implements BlobStore.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, Object{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, Object{}, ErrNotFound
	}
	return append([]byte(nil), obj.body...), copyObject(obj.info), nil
}

// Head implements BlobStore.
func (s *MemoryStore) Head(ctx context.Context, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return copyObject(obj.info), nil
}

// List implements BlobStore.
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	var out []Object
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			info := obj.info
			info.Metadata = nil
			out = append(out, info)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Delete implements BlobStore.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

func copyObject(o Object) Object {
	meta := make(map[string]string, len(o.Metadata))
	for k, v := range o.Metadata {
		meta[k] = v
	}
	o.Metadata = meta
	return o
}
