package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// F es un alias corto para campos estructurados:
// log.Info("match found", logger.F{"report_id": id}).
type F = map[string]any

type Logger interface {
	With(fields F) Logger

	Debug(msg string, fields F)
	Info(msg string, fields F)
	Warn(msg string, fields F)
	Error(msg string, fields F)
}

// StdLogger es un logger minimalista sin deps externas.
// Alcanza para el scanner y los adapters; si algún día necesitamos
// sinks remotos o sampling, recién ahí cambiamos de librería.
type StdLogger struct {
	mu     sync.Mutex
	std    *log.Logger
	level  Level
	format Format
	base   F
}

type Options struct {
	Level  Level
	Format Format
	App    string
}

func New(opts Options) Logger {
	base := F{}
	if strings.TrimSpace(opts.App) != "" {
		base["app"] = strings.TrimSpace(opts.App)
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	return &StdLogger{
		std:    log.New(os.Stdout, "", 0),
		level:  opts.Level,
		format: format,
		base:   base,
	}
}

// NewFromEnv crea logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - LOG_FORMAT=text|json (default text)
// - APP_NAME=pet-lost-found (opcional)
func NewFromEnv() Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

// Nop descarta todo. Útil en tests que no quieren ruido.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) With(F) Logger   { return nopLogger{} }
func (nopLogger) Debug(string, F) {}
func (nopLogger) Info(string, F)  {}
func (nopLogger) Warn(string, F)  {}
func (nopLogger) Error(string, F) {}

func (l *StdLogger) With(fields F) Logger {
	if len(fields) == 0 {
		return l
	}

	merged := F{}
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		merged[k] = v
	}

	// shallow copy (comparte std, level, format)
	return &StdLogger{
		std:    l.std,
		level:  l.level,
		format: l.format,
		base:   merged,
	}
}

func (l *StdLogger) Debug(msg string, fields F) { l.log(Debug, msg, fields) }
func (l *StdLogger) Info(msg string, fields F)  { l.log(Info, msg, fields) }
func (l *StdLogger) Warn(msg string, fields F)  { l.log(Warn, msg, fields) }
func (l *StdLogger) Error(msg string, fields F) { l.log(Error, msg, fields) }

func (l *StdLogger) log(lvl Level, msg string, fields F) {
	if lvl < l.level {
		return
	}

	entry := F{
		"ts":    time.Now().Format(time.RFC3339Nano),
		"level": lvl.String(),
		"msg":   msg,
	}

	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		entry[k] = v
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.format {
	case FormatJSON:
		b, _ := json.Marshal(entry)
		l.std.Println(string(b))
	default:
		l.std.Println(formatText(entry))
	}
}

func formatText(m F) string {
	// Orden estable de keys (salida predecible en tests/logs).
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}
