package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AlibekovAA/auth-api/internal/common/constants"
)

type Fields map[string]interface{}

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	CRITICAL
)

var levelNames = map[LogLevel]string{
	DEBUG:    "DEBUG",
	INFO:     "INFO",
	WARNING:  "WARNING",
	ERROR:    "ERROR",
	CRITICAL: "CRITICAL",
}

type Logger struct {
	level       LogLevel
	out         *log.Logger
	closer      io.Closer
	serviceName string
}

// New writes to stdout and, when logDir is set, to a rotating app.log
// inside it.
func New(logDir, serviceName, level string) (*Logger, error) {
	if logDir == "" {
		return NewWithWriter(os.Stdout, serviceName, level), nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    constants.LoggerMaxSize,
		MaxBackups: constants.LoggerMaxBackups,
		MaxAge:     constants.LoggerMaxAge,
		Compress:   true,
	}

	l := NewWithWriter(io.MultiWriter(os.Stdout, fileWriter), serviceName, level)
	l.closer = fileWriter
	return l, nil
}

func NewWithWriter(w io.Writer, serviceName, level string) *Logger {
	return &Logger{
		level:       parseLevel(level),
		out:         log.New(w, "", log.LstdFlags),
		serviceName: serviceName,
	}
}

func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) ShouldLog(level LogLevel) bool {
	return level >= l.level
}

func (l *Logger) logWithFields(level LogLevel, ctx context.Context, msg string, fields Fields) {
	if level < l.level {
		return
	}

	prefix := fmt.Sprintf("[%s]", levelNames[level])
	if l.serviceName != "" {
		prefix = fmt.Sprintf("[%s] [%s]", levelNames[level], l.serviceName)
	}

	var fieldParts []string

	if ctx != nil {
		if traceID, ok := ctx.Value(constants.TraceIDKey).(string); ok && traceID != "" {
			fieldParts = append(fieldParts, "trace_id="+traceID)
		}
	}

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, fields[k]))
		}
	}

	if len(fieldParts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(fieldParts, " "))
	}

	// logWithFields <- Logger/Entry method <- caller
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	} else {
		file = filepath.Base(file)
	}

	_ = l.out.Output(0, fmt.Sprintf("%s %s:%d %s", prefix, file, line, msg))
}

func (l *Logger) Debug(msg string)    { l.logWithFields(DEBUG, nil, msg, nil) }
func (l *Logger) Info(msg string)     { l.logWithFields(INFO, nil, msg, nil) }
func (l *Logger) Warn(msg string)     { l.logWithFields(WARNING, nil, msg, nil) }
func (l *Logger) Error(msg string)    { l.logWithFields(ERROR, nil, msg, nil) }
func (l *Logger) Critical(msg string) { l.logWithFields(CRITICAL, nil, msg, nil) }

func (l *Logger) Debugf(format string, args ...any) {
	l.logWithFields(DEBUG, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logWithFields(INFO, nil, fmt.Sprintf(format, args...), nil)
}

// Printf logs at INFO; it lets the logger stand in for libraries that
// expect a Printf-style sink (goose).
func (l *Logger) Printf(format string, args ...any) {
	l.logWithFields(INFO, nil, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"), nil)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logWithFields(WARNING, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logWithFields(ERROR, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.logWithFields(CRITICAL, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Fatal(msg string) {
	l.logWithFields(CRITICAL, nil, msg, nil)
	os.Exit(1)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.logWithFields(CRITICAL, nil, fmt.Sprintf(format, args...), nil)
	os.Exit(1)
}

func (l *Logger) WithFields(ctx context.Context, fields Fields) *Entry {
	return &Entry{
		logger: l,
		ctx:    ctx,
		fields: fields,
	}
}

type Entry struct {
	logger *Logger
	ctx    context.Context
	fields Fields
}

func (e *Entry) Debug(msg string)    { e.logger.logWithFields(DEBUG, e.ctx, msg, e.fields) }
func (e *Entry) Info(msg string)     { e.logger.logWithFields(INFO, e.ctx, msg, e.fields) }
func (e *Entry) Warn(msg string)     { e.logger.logWithFields(WARNING, e.ctx, msg, e.fields) }
func (e *Entry) Error(msg string)    { e.logger.logWithFields(ERROR, e.ctx, msg, e.fields) }
func (e *Entry) Critical(msg string) { e.logger.logWithFields(CRITICAL, e.ctx, msg, e.fields) }

func (e *Entry) Debugf(format string, args ...any) {
	e.logger.logWithFields(DEBUG, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Infof(format string, args ...any) {
	e.logger.logWithFields(INFO, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Warnf(format string, args ...any) {
	e.logger.logWithFields(WARNING, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Errorf(format string, args ...any) {
	e.logger.logWithFields(ERROR, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func parseLevel(value string) LogLevel {
	switch strings.TrimSpace(strings.ToUpper(value)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "CRITICAL":
		return CRITICAL
	default:
		return INFO
	}
}
