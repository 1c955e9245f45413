// Package validation приводит данные формы создания ссылки к виду,
// который принимает хранилище ссылок.
package validation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Popolzen/linkdash/internal/model"
	"github.com/go-playground/validator/v10"
)

// Сообщения, которые видит пользователь
const (
	MsgURLEmpty    = "URL can't be empty"
	MsgURLInvalid  = "Invalid URL"
	MsgDateInvalid = "Invalid date"
)

// dateLayouts форматы поля expiredIn: значение <input type="date"> и RFC 3339
var dateLayouts = []string{"2006-01-02", time.RFC3339}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ShortenForm данные формы "Create New Link"
type ShortenForm struct {
	URL       string `json:"url" validate:"required,url"`
	ExpiredIn string `json:"expiredIn"`
}

// Shorten провалидированная пара url/expiredIn
type Shorten struct {
	URL       string
	ExpiredIn *time.Time
}

// FormError ошибка конкретного поля формы
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap позволяет сравнивать через errors.Is(err, model.ErrValidation)
func (e *FormError) Unwrap() error {
	return model.ErrValidation
}

// Parse проверяет форму и преобразует строку даты в time.Time
func Parse(form ShortenForm) (Shorten, error) {
	form.URL = strings.TrimSpace(form.URL)

	if err := instance().Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
			return Shorten{}, &FormError{Field: "url", Message: MsgURLEmpty}
		}
		return Shorten{}, &FormError{Field: "url", Message: MsgURLInvalid}
	}

	expiredIn, err := ParseDate(form.ExpiredIn)
	if err != nil {
		return Shorten{}, err
	}

	return Shorten{URL: form.URL, ExpiredIn: expiredIn}, nil
}

// ParseDate пустая строка означает отсутствие срока действия
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, &FormError{Field: "expiredIn", Message: MsgDateInvalid}
}

// IsAbsoluteURL проверка на границе хранилища, независимая от формы
func IsAbsoluteURL(s string) bool {
	return instance().Var(s, "required,url") == nil
}
