package blob

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// Memory keeps files in process. Used for tests and BLOB_DRIVER=memory.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{objects: map[string]memObject{}}
}

func (m *Memory) Upload(ctx context.Context, bucket, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := newFileID(contentType)
	m.mu.Lock()
	m.objects[objectKey(bucket, id)] = memObject{data: data, contentType: contentType}
	m.mu.Unlock()
	return id, nil
}

func (m *Memory) URL(_ context.Context, bucket, fileID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[objectKey(bucket, fileID)]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, objectKey(bucket, fileID))
	}
	return "memory://" + objectKey(bucket, fileID), nil
}

func (m *Memory) Delete(_ context.Context, bucket, fileID string) error {
	m.mu.Lock()
	delete(m.objects, objectKey(bucket, fileID))
	m.mu.Unlock()
	return nil
}

// Object returns the stored bytes and content type.
func (m *Memory) Object(bucket, fileID string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[objectKey(bucket, fileID)]
	return o.data, o.contentType, ok
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
