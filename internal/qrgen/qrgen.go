// Package qrgen генерирует QR-код короткой ссылки локально, без запроса к сервису.
package qrgen

import (
	"context"
	"fmt"

	"github.com/Popolzen/linkdash/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize сторона изображения в пикселях
const DefaultSize = 256

// Local источник QR-кодов для gateway.QRSource
type Local struct {
	size int
}

func NewLocal(size int) Local {
	if size <= 0 {
		size = DefaultSize
	}
	return Local{size: size}
}

// QRCode кодирует короткий URL ссылки в PNG
func (l Local) QRCode(_ context.Context, link model.Link) ([]byte, error) {
	if link.ShortenedURL == "" {
		return nil, fmt.Errorf("%w: у ссылки %q нет короткого адреса", model.ErrNotFound, link.ID)
	}
	return Encode(link.ShortenedURL, l.size)
}

// Encode PNG с QR-кодом для произвольной строки
func Encode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации QR: %w", err)
	}
	return png, nil
}
