package logger

import (
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar atomic.Pointer[zap.SugaredLogger]

// Init инициализирует zap логгер с заданным уровнем (debug, info, warn, error)
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()

	// Настройка формата времени
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := config.Build()
	if err != nil {
		return err
	}

	sugar.Store(logger.Sugar())
	return nil
}

// L возвращает логгер процесса. До Init это no-op логгер.
func L() *zap.SugaredLogger {
	if s := sugar.Load(); s != nil {
		return s
	}
	return zap.NewNop().Sugar()
}

// RequestLogger middleware-логер для входящих HTTP-запросов дашборда.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		uri := c.Request.RequestURI
		method := c.Request.Method

		c.Next()

		L().Infow("request",
			"uri", uri,
			"method", method,
			"duration", time.Since(start),
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
		)
	}
}

func Close() {
	if s := sugar.Load(); s != nil {
		_ = s.Sync()
	}
}
