// Package handler JSON API дашборда поверх хранилища ссылок.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/model"
	"github.com/Popolzen/linkdash/internal/progress"
	"github.com/Popolzen/linkdash/internal/validation"
	"github.com/gin-gonic/gin"
)

// MsgNoURLs сообщение для пустого списка, это не ошибка
const MsgNoURLs = "No urls found"

// LinkStore операции хранилища, доступные дашборду
type LinkStore interface {
	Refresh(ctx context.Context) error
	CreateLink(ctx context.Context, originalURL string, expiredIn *time.Time) (model.Link, error)
	DeleteLink(ctx context.Context, linkID string) error
	GetQRCode(ctx context.Context, linkID string) ([]byte, error)
	CurrentLinks() []model.Link
}

// ListResponse ответ GET /api/links
type ListResponse struct {
	Data    model.URLList `json:"data"`
	Message string        `json:"message,omitempty"`
}

// ProgressResponse ответ GET /api/progress
type ProgressResponse struct {
	Value   int64 `json:"value"`
	Percent int   `json:"percent"`
	Busy    bool  `json:"busy"`
}

// ListHandler отдаёт текущий снимок; ?refresh=1 сначала обновляет его
func ListHandler(store LinkStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("refresh") == "1" || c.Query("refresh") == "true" {
			if err := store.Refresh(c.Request.Context()); err != nil {
				respondError(c, err)
				return
			}
		}
		respondList(c, store.CurrentLinks())
	}
}

// RefreshHandler обновляет коллекцию и отдаёт её
func RefreshHandler(store LinkStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Refresh(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		respondList(c, store.CurrentLinks())
	}
}

// CreateHandler создаёт ссылку из формы {"url", "expiredIn"}
func CreateHandler(store LinkStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form validation.ShortenForm
		if err := json.NewDecoder(c.Request.Body).Decode(&form); err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Неправильное тело запроса"})
			return
		}

		req, err := validation.Parse(form)
		if err != nil {
			respondError(c, err)
			return
		}

		link, err := store.CreateLink(c.Request.Context(), req.URL, req.ExpiredIn)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, model.ShortenResponse{Data: link})
	}
}

// DeleteHandler удаляет ссылку по id
func DeleteHandler(store LinkStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteLink(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// QRCodeHandler отдаёт PNG с QR-кодом ссылки
func QRCodeHandler(store LinkStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := store.GetQRCode(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Cache-Control", "private, max-age=3600")
		c.Data(http.StatusOK, "image/png", img)
	}
}

// ProgressHandler значение индикатора загрузки
func ProgressHandler(tracker *progress.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ProgressResponse{
			Value:   tracker.Value(),
			Percent: tracker.Percent(),
			Busy:    tracker.Busy(),
		})
	}
}

// PingHandler проверка, что дашборд жив
func PingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}
}

func respondList(c *gin.Context, links []model.Link) {
	resp := ListResponse{Data: model.URLList{URLs: links}}
	if len(links) == 0 {
		resp.Data.URLs = []model.Link{}
		resp.Message = MsgNoURLs
	}
	c.JSON(http.StatusOK, resp)
}

// respondError переводит ошибку хранилища в HTTP статус
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()

	var formErr *validation.FormError
	if errors.As(err, &formErr) {
		msg = formErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.L().Errorw("ошибка обработки запроса", "uri", c.Request.RequestURI, "status", status, "error", err)
	}
	c.JSON(status, model.ErrorResponse{Message: msg})
}

// StatusFor HTTP статус для ошибки из model
func StatusFor(err error) int {
	switch {
	case model.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyInProgress):
		return http.StatusConflict
	case errors.Is(err, model.ErrStoreClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
