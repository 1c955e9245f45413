// Package authority сервис сокращения ссылок в памяти с тем же HTTP
// контрактом, что и настоящий. Нужен для локальной разработки и тестов.
package authority

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/model"
	"github.com/Popolzen/linkdash/internal/qrgen"
	"github.com/Popolzen/linkdash/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ownerKey = "owner"

// Server обработчики контракта /url/*
type Server struct {
	repo       *Repository
	cookieName string
	shortBase  string
	now        func() time.Time
}

// NewServer shortBase префикс коротких ссылок, обычно адрес самого сервера
func NewServer(repo *Repository, cookieName, shortBase string) *Server {
	return &Server{
		repo:       repo,
		cookieName: cookieName,
		shortBase:  shortBase,
		now:        time.Now,
	}
}

// Router роуты сервиса
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	url := r.Group("/url")
	url.Use(s.ownerMiddleware())
	{
		url.GET("/my", s.listHandler)
		url.POST("/short", s.shortenHandler)
		url.DELETE("/remove/:id", s.removeHandler)
		url.GET("/qrcode/:id", s.qrCodeHandler)
	}

	r.GET("/:code", s.redirectHandler)
	return r
}

// ownerMiddleware владелец ссылок определяется токеном из cookie
func (s *Server) ownerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: "Unauthorized"})
			return
		}
		c.Set(ownerKey, token)
		c.Next()
	}
}

func (s *Server) listHandler(c *gin.Context) {
	links := s.repo.List(c.GetString(ownerKey))
	if links == nil {
		links = []model.Link{}
	}
	c.JSON(http.StatusOK, model.ListResponse{Data: model.URLList{URLs: links}})
}

func (s *Server) shortenHandler(c *gin.Context) {
	var req model.ShortenRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid body"})
		return
	}
	if !validation.IsAbsoluteURL(req.OriginalURL) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: validation.MsgURLInvalid})
		return
	}

	now := s.now().UTC()
	if req.ExpiredIn != nil && !req.ExpiredIn.After(now) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: validation.MsgDateInvalid})
		return
	}

	link, err := s.repo.Store(c.GetString(ownerKey), model.Link{
		ID:          uuid.NewString(),
		OriginalURL: req.OriginalURL,
		CreatedAt:   now,
		ExpiredIn:   req.ExpiredIn,
	}, s.shortBase)
	if err != nil {
		logger.L().Errorw("не удалось сохранить ссылку", "error", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, model.ShortenResponse{Data: link})
}

func (s *Server) removeHandler(c *gin.Context) {
	if !s.repo.Delete(c.GetString(ownerKey), c.Param("id")) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: "Url not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) qrCodeHandler(c *gin.Context) {
	link, ok := s.repo.Get(c.GetString(ownerKey), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: "Url not found"})
		return
	}

	png, err := qrgen.Encode(link.ShortenedURL, qrgen.DefaultSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// redirectHandler перенаправляет по короткой ссылке, просроченные отдают 410
func (s *Server) redirectHandler(c *gin.Context) {
	link, ok := s.repo.Resolve(c.Param("code"))
	if !ok {
		c.String(http.StatusNotFound, "Не нашли ссылку")
		return
	}
	if link.ExpiredIn != nil && !s.now().Before(*link.ExpiredIn) {
		c.Status(http.StatusGone)
		return
	}

	c.Header("Location", link.OriginalURL)
	c.Status(http.StatusTemporaryRedirect)
}
