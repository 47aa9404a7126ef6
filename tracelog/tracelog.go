// Package tracelog provides a Tracer that acts as a traditional logger
// for a placementconn.Manager, the way jackc/pgx's tracelog package
// provides one for query execution.
package tracelog

import (
	"context"
	"fmt"

	"github.com/citusdata/placementconn"
)

// LogLevel represents the placementconn logging level. See LogLevel*
// constants for possible values.
type LogLevel int

// The values for log levels are chosen such that the zero value means
// that no log level was specified.
const (
	LogLevelTrace = LogLevel(6)
	LogLevelDebug = LogLevel(5)
	LogLevelInfo  = LogLevel(4)
	LogLevelWarn  = LogLevel(3)
	LogLevelError = LogLevel(2)
	LogLevelNone  = LogLevel(1)
)

func (ll LogLevel) String() string {
	switch ll {
	case LogLevelTrace:
		return "trace"
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	case LogLevelNone:
		return "none"
	default:
		return fmt.Sprintf("invalid level %d", ll)
	}
}

// LogLevelFromString converts a log level string to a LogLevel.
//
// Valid levels:
//
//	trace
//	debug
//	info
//	warn
//	error
//	none
func LogLevelFromString(s string) (LogLevel, error) {
	switch s {
	case "trace":
		return LogLevelTrace, nil
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "none":
		return LogLevelNone, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}

// Logger is the interface used to get log output from a TraceLog.
type Logger interface {
	// Log a message at the given level with data key/value pairs. data
	// may be nil.
	Log(ctx context.Context, level LogLevel, msg string, data map[string]any)
}

// LoggerFunc is a wrapper around a function to satisfy the Logger
// interface.
type LoggerFunc func(ctx context.Context, level LogLevel, msg string, data map[string]any)

// Log delegates the logging request to the wrapped function.
func (f LoggerFunc) Log(ctx context.Context, level LogLevel, msg string, data map[string]any) {
	f(ctx, level, msg, data)
}

// TraceLog implements placementconn.AcquireTracer and
// placementconn.CommitTracer by logging through a Logger.
type TraceLog struct {
	Logger   Logger
	LogLevel LogLevel
}

func (tl *TraceLog) log(ctx context.Context, level LogLevel, msg string, data map[string]any) {
	if tl.Logger == nil || level > tl.LogLevel {
		return
	}
	tl.Logger.Log(ctx, level, msg, data)
}

func (tl *TraceLog) TraceAcquireStart(ctx context.Context, data placementconn.TraceAcquireStartData) context.Context {
	tl.log(ctx, LogLevelDebug, "acquiring placement connection", map[string]any{
		"accessCount": len(data.Accesses),
		"user":        data.User,
	})
	return ctx
}

func (tl *TraceLog) TraceAcquireEnd(ctx context.Context, data placementconn.TraceAcquireEndData) {
	if data.Err != nil {
		tl.log(ctx, LogLevelError, "acquiring placement connection failed", map[string]any{"err": data.Err})
		return
	}
	tl.log(ctx, LogLevelDebug, "acquired placement connection", nil)
}

func (tl *TraceLog) TraceCheckShardsStart(ctx context.Context, data placementconn.TraceCheckShardsStartData) context.Context {
	tl.log(ctx, LogLevelDebug, "checking shard placements", map[string]any{
		"preCommit": data.PreCommit,
		"using2PC":  data.Using2PC,
	})
	return ctx
}

func (tl *TraceLog) TraceCheckShardsEnd(ctx context.Context, data placementconn.TraceCheckShardsEndData) {
	for _, shardID := range data.WarnedShardIDs {
		tl.log(ctx, LogLevelWarn, "shard has no surviving placement connection", map[string]any{"shardId": shardID})
	}
	if data.Err != nil {
		tl.log(ctx, LogLevelError, "checking shard placements failed", map[string]any{"err": data.Err})
		return
	}
	tl.log(ctx, LogLevelDebug, "checked shard placements", nil)
}
