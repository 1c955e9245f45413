// Package auth не пускает к дашборду, пока нет действующей сессии сервиса.
package auth

import (
	"errors"
	"net/http"

	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/model"
	"github.com/gin-gonic/gin"
)

// Checker проверка сессии; *auth.Session подходит
type Checker interface {
	Check() error
}

// SessionMiddleware отвечает 401, если Check вернул ошибку
func SessionMiddleware(session Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := session.Check(); err != nil {
			logger.L().Debugw("запрос без действующей сессии", "uri", c.Request.RequestURI, "error", err)

			msg := "Not authenticated"
			if !errors.Is(err, model.ErrAuth) {
				msg = err.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: msg})
			return
		}

		c.Set("authenticated", true)
		c.Next()
	}
}
