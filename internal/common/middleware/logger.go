package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger возвращает настроенный middleware для логирования запросов
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | Content-Type: ${reqHeader:Content-Type}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// SetLogLevel выставляет уровень логов приложения: trace, debug, info, warn, error.
// Неизвестное значение оставляет info.
func SetLogLevel(level string) log.Level {
	lvl := log.LevelInfo
	switch strings.ToLower(level) {
	case "trace":
		lvl = log.LevelTrace
	case "debug":
		lvl = log.LevelDebug
	case "warn", "warning":
		lvl = log.LevelWarn
	case "error":
		lvl = log.LevelError
	}
	log.SetLevel(lvl)
	return lvl
}
