package logger

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"filedepot/internal/config"
)

// Log is the global logger instance
var Log zerolog.Logger

// Init configures global zerolog defaults based on Config.LogLevel.
// Accepts "panic","fatal","error","warn","info","debug","trace" (case-insensitive).
func Init(cfg *config.Config) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(parseLogLevel(cfg.LogLevel))

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()
	Log = log.Logger

	return nil
}

// parseLogLevel converts a string log level to zerolog.Level, falling
// back to info for empty or unknown values.
func parseLogLevel(levelStr string) zerolog.Level {
	if levelStr == "" {
		return zerolog.InfoLevel
	}
	// "warning" alias for "warn"
	if strings.ToLower(levelStr) == "warning" {
		levelStr = "warn"
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Middleware returns a gin middleware for HTTP request logging. Client
// errors log at warn and server errors at error so rejected traversal
// probes and genuine faults stand out from routine browsing.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		evt := Log.Info()
		switch {
		case status >= 500:
			evt = Log.Error()
		case status >= 400:
			evt = Log.Warn()
		}

		evt.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Str("remote_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// Infof logs an info message with formatting
func Infof(format string, v ...interface{}) {
	Log.Info().Msgf(format, v...)
}

// Errorf logs an error message with formatting
func Errorf(format string, v ...interface{}) {
	Log.Error().Msgf(format, v...)
}
