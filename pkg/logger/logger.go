package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/thesis-workflow-api/pkg/config"
	"github.com/noah-isme/thesis-workflow-api/pkg/middleware/requestid"
)

const serviceName = "thesis-workflow-api"

// New builds the process logger. Production uses sampled JSON; every other
// environment gets the development config. LOG_FORMAT and LOG_LEVEL override
// both.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.Encoding = encoding(cfg.Log.Format)
	zapCfg.Level = zap.NewAtomicLevelAt(level(cfg.Log.Level))
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("env", cfg.Env),
	))
}

func encoding(format string) string {
	if format == "console" {
		return "console"
	}
	return "json"
}

func level(raw string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if raw == "" {
		return lvl
	}
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// GinMiddleware writes one access log line per request: error for 5xx or
// requests carrying gin errors, warn for 4xx, info otherwise.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	access := l.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}

		switch {
		case len(c.Errors) > 0 || status >= 500:
			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("errors", c.Errors.String()))
			}
			access.Error("http_request", fields...)
		case status >= 400:
			access.Warn("http_request", fields...)
		default:
			access.Info("http_request", fields...)
		}
	}
}
