package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// deployed environments log JSON at info level; anything else is a developer machine.
var deployed = []string{"production", "prod", "staging", "stage"}

type settings struct {
	level      slog.Level
	format     Format
	out        io.Writer
	static     []slog.Attr
	extractors []ContextExtractor
}

func (s *settings) handler() slog.Handler {
	ho := &slog.HandlerOptions{Level: s.level}
	var h slog.Handler = slog.NewJSONHandler(s.out, ho)
	if s.format == FormatText {
		h = slog.NewTextHandler(s.out, ho)
	}
	if len(s.static) > 0 {
		h = h.WithAttrs(s.static)
	}
	return withContextAttrs(h, s.extractors)
}

// Option configures New.
type Option func(*settings)

// WithLevel sets the minimum level.
func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithFormat panics on anything but FormatJSON or FormatText; a typo should stop startup.
func WithFormat(f Format) Option {
	if f != FormatJSON && f != FormatText {
		panic(fmt.Sprintf("logger: unknown format %q", f))
	}
	return func(s *settings) { s.format = f }
}

// WithOutput ignores a nil writer.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

// WithAttr attaches attrs to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.static = append(s.static, attrs...) }
}

func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) {
		for _, ex := range extractors {
			if ex != nil {
				s.extractors = append(s.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) as name when the value is set.
func WithContextValue(name string, key any) Option {
	return func(s *settings) {
		if name == "" || key == nil {
			return
		}
		s.extractors = append(s.extractors, func(ctx context.Context) (slog.Attr, bool) {
			v := ctx.Value(key)
			return slog.Any(name, v), v != nil
		})
	}
}

// WithEnvironment picks level and format from APP_ENV and tags records with
// the service and environment names. Unknown environments count as development.
func WithEnvironment(env, service string) Option {
	return func(s *settings) {
		if slices.Contains(deployed, env) {
			s.level, s.format = slog.LevelInfo, FormatJSON
		} else {
			env = "development"
			s.level, s.format = slog.LevelDebug, FormatText
		}
		if service != "" {
			s.static = append(s.static, slog.String("service", service))
		}
		s.static = append(s.static, slog.String("env", env))
	}
}

func SetAsDefault(l *slog.Logger) { slog.SetDefault(l) }

// New returns a logger writing JSON at info level to stdout unless opts say otherwise.
func New(opts ...Option) *slog.Logger {
	s := &settings{level: slog.LevelInfo, format: FormatJSON, out: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	return slog.New(s.handler())
}

// Nop discards every record.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
