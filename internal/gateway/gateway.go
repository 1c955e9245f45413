// Package gateway тонкая обёртка над удалённым сервисом ссылок:
// каждый вызов делает ровно один запрос, без кеша и повторов.
package gateway

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

import (
	"context"
	"time"

	"github.com/Popolzen/linkdash/internal/model"
)

// Gateway удалённые операции над ссылками текущего пользователя
type Gateway interface {
	// ListMine все ссылки пользователя в порядке, заданном сервисом
	ListMine(ctx context.Context) ([]model.Link, error)
	// Create новая ссылка; повторный вызов создаст ещё одну
	Create(ctx context.Context, originalURL string, expiredIn *time.Time) (model.Link, error)
	// Delete удаляет ссылку по id
	Delete(ctx context.Context, linkID string) error
	// RequestQRCode PNG с QR-кодом короткой ссылки
	RequestQRCode(ctx context.Context, linkID string) ([]byte, error)
}

// QRSource источник QR-кода для ссылки
type QRSource interface {
	QRCode(ctx context.Context, link model.Link) ([]byte, error)
}

// RemoteQR получает QR-код через Gateway
type RemoteQR struct {
	gw Gateway
}

func NewRemoteQR(gw Gateway) RemoteQR {
	return RemoteQR{gw: gw}
}

func (r RemoteQR) QRCode(ctx context.Context, link model.Link) ([]byte, error) {
	return r.gw.RequestQRCode(ctx, link.ID)
}
