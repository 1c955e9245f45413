package qrcache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultFrontSize сколько изображений держать в памяти перед общим кешем
const DefaultFrontSize = 128

// Layered ограниченный LRU в памяти поверх общего кеша (обычно Redis).
// Вытеснение из LRU не теряет запись: она остаётся в общем кеше.
type Layered struct {
	front *lru.Cache[string, []byte]
	back  Cache
}

func NewLayered(size int, back Cache) (*Layered, error) {
	if size <= 0 {
		size = DefaultFrontSize
	}
	front, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания LRU: %w", err)
	}
	return &Layered{front: front, back: back}, nil
}

func (l *Layered) Get(ctx context.Context, linkID string) ([]byte, bool, error) {
	if img, ok := l.front.Get(linkID); ok {
		return img, true, nil
	}

	img, ok, err := l.back.Get(ctx, linkID)
	if err != nil || !ok {
		return nil, false, err
	}
	l.front.Add(linkID, img)
	return img, true, nil
}

func (l *Layered) Set(ctx context.Context, linkID string, img []byte) error {
	l.front.Add(linkID, img)
	return l.back.Set(ctx, linkID, img)
}

func (l *Layered) Delete(ctx context.Context, linkID string) error {
	l.front.Remove(linkID)
	return l.back.Delete(ctx, linkID)
}
