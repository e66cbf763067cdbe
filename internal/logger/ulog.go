package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/go-chi/chi/v5/middleware"
)

var std *slog.Logger

// Options controls the process-wide logger. Zero values fall back to JSON at info level on stdout.
type Options struct {
	Format    string // json|text
	Level     string // debug|info|warn|error
	AddSource bool
	Output    io.Writer
}

// OptionsFromEnv reads
//
//	LOG_FORMAT    json|text (default: json, text for command line tools)
//	LOG_LEVEL     debug|info|warn|error (default: info)
//	LOG_SOURCE    true|false (default: false)
func OptionsFromEnv(defaultFormat string) Options {
	src, _ := strconv.ParseBool(os.Getenv("LOG_SOURCE"))
	return Options{
		Format:    getEnv("LOG_FORMAT", defaultFormat),
		Level:     getEnv("LOG_LEVEL", "info"),
		AddSource: src,
	}
}

// requestAttrHandler tags each record with who triggered it: the admin, else the
// visitor IP, else "system". Request and media ids follow when present.
type requestAttrHandler struct{ h slog.Handler }

func (u requestAttrHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return u.h.Enabled(ctx, lvl)
}

func (u requestAttrHandler) Handle(ctx context.Context, r slog.Record) error {
	switch email, ok := api_context.AuthEmailFromContext(ctx); {
	case ok:
		r.AddAttrs(slog.String("admin", email))
	case api_context.ClientIPFromContext(ctx) != "":
		r.AddAttrs(slog.String("ip", api_context.ClientIPFromContext(ctx)))
	default:
		r.AddAttrs(slog.String("admin", "system"))
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String("req", reqID))
	}
	if id, ok := api_context.IDFromContext(ctx); ok {
		r.AddAttrs(slog.String("media", id))
	}
	return u.h.Handle(ctx, r)
}

func (u requestAttrHandler) WithAttrs(a []slog.Attr) slog.Handler {
	return requestAttrHandler{h: u.h.WithAttrs(a)}
}

func (u requestAttrHandler) WithGroup(n string) slog.Handler {
	return requestAttrHandler{h: u.h.WithGroup(n)}
}

// Init configures the logger of a long running service from the environment.
func Init(svc string) {
	Setup(svc, OptionsFromEnv("json"))
}

// Setup installs a logger tagged with svc as the package and slog default.
func Setup(svc string, opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	hOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level), AddSource: opts.AddSource}

	var base slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		base = slog.NewTextHandler(out, hOpts)
	} else {
		base = slog.NewJSONHandler(out, hOpts)
	}

	std = slog.New(requestAttrHandler{h: base}).With("svc", svc)
	slog.SetDefault(std)

	// plain log.Printf callers (chi's request logger) end up in the same stream
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(base, slog.LevelInfo).Writer())
	return std
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func activeLogger() *slog.Logger {
	if std != nil {
		return std
	}
	return slog.Default()
}

func Info(ctx context.Context, msg string, attrs ...any) {
	activeLogger().InfoContext(ctx, msg, attrs...)
}
func Warn(ctx context.Context, msg string, attrs ...any) {
	activeLogger().WarnContext(ctx, msg, attrs...)
}
func Error(ctx context.Context, msg string, attrs ...any) {
	activeLogger().ErrorContext(ctx, msg, attrs...)
}
func Debug(ctx context.Context, msg string, attrs ...any) {
	activeLogger().DebugContext(ctx, msg, attrs...)
}

func Infof(ctx context.Context, format string, a ...any) {
	activeLogger().InfoContext(ctx, fmt.Sprintf(format, a...))
}
func Errorf(ctx context.Context, format string, a ...any) {
	activeLogger().ErrorContext(ctx, fmt.Sprintf(format, a...))
}
func Warnf(ctx context.Context, format string, a ...any) {
	activeLogger().WarnContext(ctx, fmt.Sprintf(format, a...))
}
func Debugf(ctx context.Context, format string, a ...any) {
	activeLogger().DebugContext(ctx, fmt.Sprintf(format, a...))
}
