package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Options control logger construction.
type Options struct {
	// Format selects the handler: "console" or "json".
	Format string
	// Level is one of debug, info, warn, error.
	Level string
	// Writer receives the output. Defaults to os.Stderr.
	Writer io.Writer
	// FilePath, when set, duplicates output to the named file in JSON form.
	FilePath string
}

// New builds a slog.Logger from Options.
func New(opts Options) (*slog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	var handlers []slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		handlers = append(handlers, newConsoleHandler(writer, level))
	case "json":
		handlers = append(handlers, slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), nil
	}
	return slog.New(newTeeHandler(handlers...)), nil
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

// teeHandler fans records out to every wrapped handler.
type teeHandler struct {
	handlers []slog.Handler
}

func newTeeHandler(handlers ...slog.Handler) slog.Handler {
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		wrapped[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: wrapped}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	wrapped := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		wrapped[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: wrapped}
}

// consoleHandler renders compact single-line records for interactive use:
//
//	15:04:05 INFO  workflow  stage started job_id=... stage=analyzing
type consoleHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(writer io.Writer, level slog.Leveler) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: writer, level: level}
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Time.Format("15:04:05"))
	sb.WriteByte(' ')
	sb.WriteString(fmt.Sprintf("%-5s", record.Level.String()))

	component := ""
	fields := make(map[string]string)
	collect := func(attr slog.Attr) {
		if attr.Key == FieldComponent {
			component = attr.Value.String()
			return
		}
		fields[c.qualify(attr.Key)] = formatValue(attr.Value)
	}
	for _, attr := range c.attrs {
		collect(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		collect(attr)
		return true
	})

	if component != "" {
		sb.WriteByte(' ')
		sb.WriteString(fmt.Sprintf("%-10s", component))
	}
	sb.WriteByte(' ')
	sb.WriteString(record.Message)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(fields[key])
	}
	sb.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.writer, sb.String())
	return err
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *c
	clone.attrs = append(append([]slog.Attr{}, c.attrs...), attrs...)
	return &clone
}

func (c *consoleHandler) WithGroup(name string) slog.Handler {
	clone := *c
	clone.groups = append(append([]string{}, c.groups...), name)
	return &clone
}

func (c *consoleHandler) qualify(key string) string {
	if len(c.groups) == 0 {
		return key
	}
	return strings.Join(c.groups, ".") + "." + key
}

func formatValue(value slog.Value) string {
	value = value.Resolve()
	switch value.Kind() {
	case slog.KindDuration:
		return value.Duration().Round(time.Millisecond).String()
	case slog.KindString:
		s := value.String()
		if strings.ContainsAny(s, " \t") {
			return fmt.Sprintf("%q", s)
		}
		return s
	default:
		return value.String()
	}
}
