package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Format selects how log lines are encoded.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures a ZerologLogger.
type Options struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...). Empty means warn.
	Level string
	// Format is console (default) or json.
	Format Format
	// Component is attached to every line as the "component" field.
	Component string
	// Out overrides the destination. Nil means stderr.
	Out io.Writer
}

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger builds a logger from opts. An unknown level is an error so a
// typo in the environment is surfaced instead of silently logging nothing.
func NewZerologLogger(opts Options) (*ZerologLogger, error) {
	levelName := strings.TrimSpace(strings.ToLower(opts.Level))
	if levelName == "" {
		levelName = zerolog.WarnLevel.String()
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	out := opts.Out
	if out == nil {
		out = stderrWriter(opts.Format)
	} else if opts.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	return &ZerologLogger{zl: ctx.Logger()}, nil
}

func stderrWriter(format Format) io.Writer {
	if format == FormatJSON {
		return os.Stderr
	}
	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    !tty,
		TimeFormat: time.Kitchen,
	}
}

func (l *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }
func (l *ZerologLogger) Info(msg string, fields ...Field)  { l.emit(l.zl.Info(), msg, fields) }
func (l *ZerologLogger) Warn(msg string, fields ...Field)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *ZerologLogger) Error(msg string, fields ...Field) { l.emit(l.zl.Error(), msg, fields) }

// DebugEnabled reports whether the configured level lets debug lines through.
func (l *ZerologLogger) DebugEnabled() bool {
	return l.zl.GetLevel() <= zerolog.DebugLevel
}

// With returns a child logger carrying fields on every line.
func (l *ZerologLogger) With(fields ...Field) Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &ZerologLogger{zl: ctx.Logger()}
}
