package store

import (
	"context"
	"fmt"

	"github.com/Popolzen/linkdash/internal/audit"
	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/model"
)

// GetQRCode QR-код ссылки из кеша или от источника.
// Одновременные запросы одного id делят один запрос к источнику.
func (s *Store) GetQRCode(ctx context.Context, linkID string) ([]byte, error) {
	if linkID == "" {
		return nil, fmt.Errorf("%w: пустой id", model.ErrInvalidInput)
	}
	if s.isClosed() {
		return nil, model.ErrStoreClosed
	}

	img, ok, err := s.cache.Get(ctx, linkID)
	if err != nil {
		logger.L().Warnw("кеш QR-кодов недоступен", "id", linkID, "error", err)
	} else if ok {
		return img, nil
	}

	// Запрос в полёте не отменяется, если первый вызвавший ушёл
	flightCtx := context.WithoutCancel(ctx)
	ch := s.qrFlight.DoChan(linkID, func() (any, error) {
		// Предыдущий запрос мог успеть положить код в кеш между проверкой и DoChan
		if img, ok, err := s.cache.Get(flightCtx, linkID); err == nil && ok {
			return img, nil
		}
		return s.fetchQRCode(flightCtx, linkID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) fetchQRCode(ctx context.Context, linkID string) ([]byte, error) {
	tracker := s.tracker()
	tracker.Start()
	defer tracker.Done()

	s.mu.RLock()
	link := model.Link{ID: linkID}
	if i := indexByID(s.links, linkID); i >= 0 {
		link = s.links[i]
	}
	removals := s.removals
	s.mu.RUnlock()

	img, err := s.qr.QRCode(ctx, link)
	s.audit.Publish(audit.NewEvent(audit.ActionQRCode, linkID, link.ShortenedURL, err))
	if err != nil {
		logger.L().Warnw("не удалось получить QR-код", "id", linkID, "error", err)
		return nil, fmt.Errorf("не удалось получить QR-код: %w", err)
	}

	s.mu.RLock()
	_, deleting := s.deleting[linkID]
	stale := s.closed || deleting ||
		(s.removals != removals && indexByID(s.links, linkID) < 0)
	s.mu.RUnlock()

	// Ссылку удалили, пока шёл запрос: в кеш не кладём
	if stale {
		return img, nil
	}
	if err := s.cache.Set(ctx, linkID, img); err != nil {
		logger.L().Warnw("не удалось сохранить QR-код в кеш", "id", linkID, "error", err)
	}
	return img, nil
}
