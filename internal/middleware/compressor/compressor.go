// Package compressor gzip для запросов и ответов дашборда.
package compressor

import (
	"net/http"
	"strings"
	"sync"

	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// compressible типы, которые имеет смысл сжимать; PNG уже сжат
var compressible = []string{"application/json", "text/plain", "text/html"}

var writers = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

type gzipWriter struct {
	gin.ResponseWriter
	writer     *gzip.Writer
	compressed bool
	decided    bool
}

func (g *gzipWriter) Write(b []byte) (int, error) {
	g.decide()
	if g.compressed {
		return g.writer.Write(b)
	}
	return g.ResponseWriter.Write(b)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

// decide выбирает сжатие по Content-Type до отправки заголовков
func (g *gzipWriter) decide() {
	if g.decided {
		return
	}
	g.decided = true

	contentType := g.Header().Get("Content-Type")
	for _, t := range compressible {
		if strings.Contains(contentType, t) {
			g.compressed = true
			g.Header().Set("Content-Encoding", "gzip")
			g.Header().Add("Vary", "Accept-Encoding")
			g.Header().Del("Content-Length")
			g.writer.Reset(g.ResponseWriter)
			return
		}
	}
}

func (g *gzipWriter) Close() error {
	defer writers.Put(g.writer)
	if g.compressed {
		return g.writer.Close()
	}
	return nil
}

// Compresser распаковывает gzip-запросы и сжимает текстовые ответы
func Compresser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.Contains(strings.ToLower(c.GetHeader("Content-Encoding")), "gzip") {
			reader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Не удалось распаковать данные"})
				return
			}
			c.Request.Body = reader
			defer reader.Close()
		}

		if !strings.Contains(strings.ToLower(c.GetHeader("Accept-Encoding")), "gzip") {
			c.Next()
			return
		}

		gz := &gzipWriter{
			ResponseWriter: c.Writer,
			writer:         writers.Get().(*gzip.Writer),
		}
		c.Writer = gz
		defer func() {
			if err := gz.Close(); err != nil {
				logger.L().Warnw("ошибка завершения gzip", "error", err)
			}
		}()

		c.Next()
	}
}
