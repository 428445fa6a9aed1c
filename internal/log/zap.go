package log

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapLogger forwards protocol events to a zap SugaredLogger. It does
// not retain events; pair it with a MemoryLogger via MultiLogger when
// a session needs both.
type ZapLogger struct {
	mu    sync.Mutex
	seq   int
	sugar *zap.SugaredLogger
}

func NewZapLogger(sugar *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{sugar: sugar}
}

func (l *ZapLogger) Log(event Event) {
	l.mu.Lock()
	if event.Seq == 0 {
		l.seq++
		event.Seq = l.seq
	}
	l.mu.Unlock()
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	fields := []any{"seq", event.Seq, "event", event.Type.String()}
	if event.Tag != "" {
		fields = append(fields, "tag", event.Tag)
	}
	if event.Raw != "" {
		fields = append(fields, "raw", event.Raw)
	}

	switch event.Level {
	case LevelDebug:
		l.sugar.Debugw(event.Detail, fields...)
	case LevelInfo:
		l.sugar.Infow(event.Detail, fields...)
	case LevelWarn:
		l.sugar.Warnw(event.Detail, fields...)
	default:
		l.sugar.Errorw(event.Detail, fields...)
	}
}

func (l *ZapLogger) Events() []Event { return nil }

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

var _ EventLogger = (*ZapLogger)(nil)

// NewRotatingZapLogger builds a SugaredLogger that writes to filePath
// with rotation: 10MB per file, 3 backups, 7 days retention.
func NewRotatingZapLogger(filePath string, debug bool) *zap.SugaredLogger {
	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   false,
	}

	ws := zapcore.AddSync(lj)
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, level)
	return zap.New(core, zap.AddCaller()).Sugar()
}
