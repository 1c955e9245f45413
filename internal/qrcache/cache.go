// Package qrcache хранилища QR-кодов ссылок по id ссылки.
package qrcache

import (
	"context"
	"sync"
)

// Cache кеш изображений QR-кодов
type Cache interface {
	Get(ctx context.Context, linkID string) ([]byte, bool, error)
	Set(ctx context.Context, linkID string, img []byte) error
	Delete(ctx context.Context, linkID string) error
}

// Memory кеш в памяти процесса, записи живут до удаления ссылки
type Memory struct {
	mu     sync.RWMutex
	images map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{images: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, linkID string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	img, ok := m.images[linkID]
	return img, ok, nil
}

func (m *Memory) Set(_ context.Context, linkID string, img []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.images[linkID] = img
	return nil
}

func (m *Memory) Delete(_ context.Context, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.images, linkID)
	return nil
}

// Len количество закешированных изображений
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}
