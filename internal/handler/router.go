package handler

import (
	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/Popolzen/linkdash/internal/middleware/auth"
	"github.com/Popolzen/linkdash/internal/middleware/compressor"
	"github.com/Popolzen/linkdash/internal/middleware/subnet"
	"github.com/Popolzen/linkdash/internal/progress"
	"github.com/gin-gonic/gin"
)

// RouterConfig зависимости роутера дашборда
type RouterConfig struct {
	Store         LinkStore
	Progress      *progress.Tracker
	Session       auth.Checker
	TrustedSubnet string
}

// NewRouter настраивает роуты и middleware дашборда
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(compressor.Compresser())

	r.GET("/ping", PingHandler())

	api := r.Group("/api")
	api.Use(subnet.TrustedSubnetMiddleware(cfg.TrustedSubnet))
	api.GET("/progress", ProgressHandler(cfg.Progress))

	links := api.Group("/links")
	links.Use(auth.SessionMiddleware(cfg.Session))
	{
		links.GET("", ListHandler(cfg.Store))
		links.POST("", CreateHandler(cfg.Store))
		links.POST("/refresh", RefreshHandler(cfg.Store))
		links.DELETE("/:id", DeleteHandler(cfg.Store))
		links.GET("/:id/qrcode", QRCodeHandler(cfg.Store))
	}

	return r
}
