// Package store хранит ссылки текущего пользователя и сверяет их с сервисом.
//
// Коллекция меняется только после подтверждения от сервиса: Refresh заменяет
// её целиком, CreateLink дописывает ссылку в конец, DeleteLink удаляет.
// Мьютекс коллекции не удерживается во время запросов к сервису.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Popolzen/linkdash/internal/audit"
	"github.com/Popolzen/linkdash/internal/gateway"
	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/model"
	"github.com/Popolzen/linkdash/internal/progress"
	"github.com/Popolzen/linkdash/internal/qrcache"
	"github.com/Popolzen/linkdash/internal/validation"
	"golang.org/x/sync/singleflight"
)

// change мутация, подтверждённая во время незавершённого Refresh
type change struct {
	deleted bool
	link    model.Link
}

// Store владелец коллекции ссылок и кеша QR-кодов
type Store struct {
	gw       gateway.Gateway
	qr       gateway.QRSource
	cache    qrcache.Cache
	progress *progress.Tracker
	audit    *audit.Publisher

	mu       sync.RWMutex
	links    []model.Link
	deleting map[string]struct{}
	closed   bool
	// refreshing число Refresh в полёте; пока оно > 0, мутации пишутся в changes
	refreshing int
	changes    []change
	// removals растёт с каждым подтверждённым удалением
	removals uint64

	qrFlight singleflight.Group
}

// Option настройка Store
type Option func(*Store)

// WithQRSource источник QR-кодов, по умолчанию запрос к сервису
func WithQRSource(src gateway.QRSource) Option {
	return func(s *Store) {
		s.qr = src
	}
}

// WithQRCache кеш QR-кодов, по умолчанию в памяти
func WithQRCache(c qrcache.Cache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithProgress счётчик активности. Без него берётся progress.Global()
// на момент каждой операции, так что progress.Init подхватывается сразу.
func WithProgress(t *progress.Tracker) Option {
	return func(s *Store) {
		s.progress = t
	}
}

// WithAudit публикация событий аудита
func WithAudit(p *audit.Publisher) Option {
	return func(s *Store) {
		s.audit = p
	}
}

// New создаёт пустое хранилище; первое наполнение делает Refresh
func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:       gw,
		links:    []model.Link{},
		deleting: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.qr == nil {
		s.qr = gateway.NewRemoteQR(gw)
	}
	if s.cache == nil {
		s.cache = qrcache.NewMemory()
	}
	return s
}

// Refresh заменяет коллекцию списком от сервиса. При ошибке коллекция не меняется.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.ErrStoreClosed
	}
	s.refreshing++
	mark := len(s.changes)
	s.mu.Unlock()

	tracker := s.tracker()
	tracker.Start()
	defer tracker.Done()

	links, err := s.gw.ListMine(ctx)
	s.audit.Publish(audit.NewEvent(audit.ActionRefresh, "", "", err))

	s.mu.Lock()

	// Мутации, подтверждённые пока шёл запрос, накатываются поверх ответа
	pending := slices.Clone(s.changes[mark:])
	s.refreshing--
	if s.refreshing == 0 {
		s.changes = nil
	}

	if err != nil {
		s.mu.Unlock()
		logger.L().Warnw("не удалось обновить список ссылок", "error", err)
		return fmt.Errorf("не удалось обновить список ссылок: %w", err)
	}
	if s.closed {
		s.mu.Unlock()
		return model.ErrStoreClosed
	}

	links = uniqueByID(links)
	for _, c := range pending {
		if c.deleted {
			links = removeByID(links, c.link.ID)
			continue
		}
		if indexByID(links, c.link.ID) < 0 {
			links = append(links, c.link)
		}
	}

	// Ссылки, которых сервис больше не отдаёт, уходят вместе с QR-кодами
	var dropped []string
	for _, l := range s.links {
		if indexByID(links, l.ID) < 0 {
			dropped = append(dropped, l.ID)
		}
	}
	if len(dropped) > 0 {
		s.removals++
	}
	s.links = links
	s.mu.Unlock()

	cacheCtx := context.WithoutCancel(ctx)
	for _, id := range dropped {
		if err := s.cache.Delete(cacheCtx, id); err != nil {
			logger.L().Warnw("не удалось удалить QR-код из кеша", "id", id, "error", err)
		}
	}

	logger.L().Debugw("список ссылок обновлён", "count", len(links), "dropped", len(dropped))
	return nil
}

// CreateLink создаёт ссылку и дописывает её в конец коллекции
func (s *Store) CreateLink(ctx context.Context, originalURL string, expiredIn *time.Time) (model.Link, error) {
	originalURL = strings.TrimSpace(originalURL)
	if originalURL == "" {
		return model.Link{}, fmt.Errorf("%w: пустой url", model.ErrInvalidInput)
	}
	if !validation.IsAbsoluteURL(originalURL) {
		return model.Link{}, fmt.Errorf("%w: некорректный url %q", model.ErrInvalidInput, originalURL)
	}
	if s.isClosed() {
		return model.Link{}, model.ErrStoreClosed
	}

	tracker := s.tracker()
	tracker.Start()
	defer tracker.Done()

	link, err := s.gw.Create(ctx, originalURL, expiredIn)
	s.audit.Publish(audit.NewEvent(audit.ActionCreate, link.ID, originalURL, err))
	if err != nil {
		logger.L().Warnw("не удалось создать ссылку", "url", originalURL, "error", err)
		return model.Link{}, fmt.Errorf("не удалось создать ссылку: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Link{}, model.ErrStoreClosed
	}

	// Параллельный Refresh мог уже принести эту ссылку
	if indexByID(s.links, link.ID) < 0 {
		s.links = append(s.links, link)
	}
	s.recordLocked(change{link: link})

	logger.L().Infow("ссылка создана", "id", link.ID, "short", link.ShortenedURL)
	return link, nil
}

// DeleteLink удаляет ссылку. Отсутствие ссылки у сервиса считается успехом.
// Повторный вызов для id, удаление которого ещё идёт, возвращает ErrAlreadyInProgress.
func (s *Store) DeleteLink(ctx context.Context, linkID string) error {
	if linkID == "" {
		return fmt.Errorf("%w: пустой id", model.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.ErrStoreClosed
	}
	if _, busy := s.deleting[linkID]; busy {
		s.mu.Unlock()
		return fmt.Errorf("%w: удаление %s", model.ErrAlreadyInProgress, linkID)
	}
	s.deleting[linkID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.deleting, linkID)
		s.mu.Unlock()
	}()

	tracker := s.tracker()
	tracker.Start()
	defer tracker.Done()

	err := s.gw.Delete(ctx, linkID)
	if errors.Is(err, model.ErrNotFound) {
		logger.L().Debugw("ссылка уже удалена на сервисе", "id", linkID)
		err = nil
	}
	s.audit.Publish(audit.NewEvent(audit.ActionDelete, linkID, "", err))
	if err != nil {
		logger.L().Warnw("не удалось удалить ссылку", "id", linkID, "error", err)
		return fmt.Errorf("не удалось удалить ссылку: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.links = removeByID(s.links, linkID)
	s.removals++
	s.recordLocked(change{deleted: true, link: model.Link{ID: linkID}})
	s.mu.Unlock()

	if err := s.cache.Delete(ctx, linkID); err != nil {
		logger.L().Warnw("не удалось удалить QR-код из кеша", "id", linkID, "error", err)
	}

	logger.L().Infow("ссылка удалена", "id", linkID)
	return nil
}

// CurrentLinks копия коллекции в текущем порядке
func (s *Store) CurrentLinks() []model.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.links)
}

// Find ищет ссылку в коллекции по id
func (s *Store) Find(linkID string) (model.Link, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexByID(s.links, linkID)
	if i < 0 {
		return model.Link{}, false
	}
	return s.links[i], true
}

// Close после закрытия результаты запросов в полёте отбрасываются
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store) tracker() *progress.Tracker {
	if s.progress != nil {
		return s.progress
	}
	return progress.Global()
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// recordLocked вызывается под s.mu
func (s *Store) recordLocked(c change) {
	if s.refreshing > 0 {
		s.changes = append(s.changes, c)
	}
}

func indexByID(links []model.Link, id string) int {
	return slices.IndexFunc(links, func(l model.Link) bool {
		return l.ID == id
	})
}

func removeByID(links []model.Link, id string) []model.Link {
	return slices.DeleteFunc(links, func(l model.Link) bool {
		return l.ID == id
	})
}

// uniqueByID оставляет первое вхождение каждого id
func uniqueByID(links []model.Link) []model.Link {
	seen := make(map[string]struct{}, len(links))
	out := make([]model.Link, 0, len(links))
	for _, l := range links {
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}
