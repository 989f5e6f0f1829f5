package logging

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int8(l))
}

// Sink consumes structured events. The runner and reporter write through a
// Sink so they never touch a process-wide logger.
type Sink interface {
	Log(level Level, msg string, fields map[string]string) error
}

// ZapSink writes events to a zap logger.
type ZapSink struct {
	Logger *zap.Logger
}

func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{Logger: l}
}

func (s *ZapSink) Log(level Level, msg string, fields map[string]string) error {
	zl, err := zapLevel(level)
	if err != nil {
		return err
	}
	ce := s.Logger.Check(zl, msg)
	if ce == nil {
		return nil
	}

	// Sorted so file output is stable between runs.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.String(k, fields[k]))
	}
	ce.Write(zf...)
	return nil
}

func zapLevel(l Level) (zapcore.Level, error) {
	switch l {
	case LevelDebug:
		return zap.DebugLevel, nil
	case LevelInfo:
		return zap.InfoLevel, nil
	case LevelWarn:
		return zap.WarnLevel, nil
	case LevelError:
		return zap.ErrorLevel, nil
	}
	return 0, fmt.Errorf("logging: unknown level %s", l)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Log(Level, string, map[string]string) error { return nil }
