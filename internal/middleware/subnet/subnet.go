package subnet

import (
	"net"
	"net/http"

	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/gin-gonic/gin"
)

// TrustedSubnetMiddleware пускает к дашборду только клиентов из доверенной подсети.
//
// Параметры:
//   - trustedSubnet: строковое представление CIDR (например, "127.0.0.0/8")
//
// Логика:
//   - Если trustedSubnet пустая строка или невалидный CIDR → всегда 403 Forbidden
//   - IP берётся из заголовка X-Real-IP, при его отсутствии из адреса соединения
//   - Если IP не входит в подсеть → 403 Forbidden
//
// Пример использования:
//
//	api := r.Group("/api")
//	api.Use(subnet.TrustedSubnetMiddleware("127.0.0.0/8"))
func TrustedSubnetMiddleware(trustedSubnet string) gin.HandlerFunc {
	if trustedSubnet == "" {
		return func(c *gin.Context) {
			logger.L().Warnw("доступ запрещен: доверенная подсеть не настроена")
			c.AbortWithStatus(http.StatusForbidden)
		}
	}

	_, ipNet, err := net.ParseCIDR(trustedSubnet)
	if err != nil {
		logger.L().Errorw("ошибка парсинга CIDR", "cidr", trustedSubnet, "error", err)
		return func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		}
	}

	return func(c *gin.Context) {
		realIP := c.GetHeader("X-Real-IP")
		if realIP == "" {
			realIP = c.RemoteIP()
		}

		ip := net.ParseIP(realIP)
		if ip == nil {
			logger.L().Infow("доступ запрещен: невалидный IP", "ip", realIP)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if !ipNet.Contains(ip) {
			logger.L().Infow("доступ запрещен: IP вне доверенной подсети", "ip", realIP, "subnet", trustedSubnet)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}
