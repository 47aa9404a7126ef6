// Package kitlogadapter provides a logger that writes to a
// github.com/go-kit/log.Logger log.
package kitlogadapter

import (
	"context"

	kitlog "github.com/go-kit/log"
	kitlevel "github.com/go-kit/log/level"

	"github.com/citusdata/placementconn/tracelog"
)

type Logger struct {
	l kitlog.Logger
}

func NewLogger(l kitlog.Logger) *Logger {
	return &Logger{l: l}
}

func (l *Logger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	logger := l.l
	for k, v := range data {
		logger = kitlog.With(logger, k, v)
	}

	switch level {
	case tracelog.LogLevelTrace:
		logger.Log("PLACEMENTCONN_LOG_LEVEL", level, "msg", msg)
	case tracelog.LogLevelDebug:
		kitlevel.Debug(logger).Log("msg", msg)
	case tracelog.LogLevelInfo:
		kitlevel.Info(logger).Log("msg", msg)
	case tracelog.LogLevelWarn:
		kitlevel.Warn(logger).Log("msg", msg)
	case tracelog.LogLevelError:
		kitlevel.Error(logger).Log("msg", msg)
	default:
		logger.Log("INVALID_PLACEMENTCONN_LOG_LEVEL", level, "error", msg)
	}
}
