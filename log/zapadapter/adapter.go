// Package zapadapter provides a logger that writes to a go.uber.org/zap.Logger.
package zapadapter

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/citusdata/placementconn/tracelog"
)

type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (pl *Logger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var zlevel zapcore.Level
	switch level {
	case tracelog.LogLevelTrace:
		zlevel = zapcore.DebugLevel
	case tracelog.LogLevelDebug:
		zlevel = zapcore.DebugLevel
	case tracelog.LogLevelInfo:
		zlevel = zapcore.InfoLevel
	case tracelog.LogLevelWarn:
		zlevel = zapcore.WarnLevel
	case tracelog.LogLevelError:
		zlevel = zapcore.ErrorLevel
	default:
		zlevel = zapcore.ErrorLevel
	}

	if ce := pl.logger.Check(zlevel, msg); ce != nil {
		fields := make([]zap.Field, 0, len(data)+1)
		if level == tracelog.LogLevelTrace {
			fields = append(fields, zap.Stringer("PLACEMENTCONN_LOG_LEVEL", level))
		}
		for k, v := range data {
			fields = append(fields, zap.Any(k, v))
		}
		ce.Write(fields...)
	}
}
