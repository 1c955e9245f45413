package model

import (
	"errors"
	"time"
)

// Link одна сокращённая ссылка пользователя в том виде, в каком её отдаёт сервис
type Link struct {
	ID           string     `json:"_id"`
	OriginalURL  string     `json:"originalUrl"`
	ShortenedURL string     `json:"shortenUrl"`
	Logo         string     `json:"logo,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiredIn    *time.Time `json:"expiredIn,omitempty"`
}

// NeverExpires сообщает, что у ссылки нет срока действия
func (l Link) NeverExpires() bool {
	return l.ExpiredIn == nil
}

// ShortenRequest тело POST /url/short
type ShortenRequest struct {
	OriginalURL string     `json:"originalUrl"`
	ExpiredIn   *time.Time `json:"expiredIn,omitempty"`
}

// ShortenResponse ответ POST /url/short
type ShortenResponse struct {
	Data Link `json:"data"`
}

// URLList содержимое поля data ответа GET /url/my
type URLList struct {
	URLs []Link `json:"urls"`
}

// ListResponse ответ GET /url/my
type ListResponse struct {
	Data URLList `json:"data"`
}

// ErrorResponse тело ответа с ошибкой от сервиса
type ErrorResponse struct {
	Message string `json:"message"`
}

// Ошибки, которые видит слой представления
var (
	ErrTransport         = errors.New("transport error")
	ErrAuth              = errors.New("not authenticated")
	ErrValidation        = errors.New("validation error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("link not found")
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrStoreClosed       = errors.New("link store is closed")
)

// IsInputError true для ошибок, вызванных входными данными пользователя
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrValidation)
}
