// Package log builds the process loggers from the log.* options: the slog
// logger for everything and the raw logger for controller samples.
//
// Without a log file, records below error go to stdout and errors to stderr,
// colored when the stream is a terminal. With a log file, the console gets
// plain text on stderr and the file gets everything at the chosen level.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LevelTrace is below Debug; it also turns on raw sample dumping to stdout.
const LevelTrace slog.Level = -8

// Options are the log.* flags.
type Options struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"STRATAPAD_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" type:"path" env:"STRATAPAD_LOG_FILE"`
	RawFile string `help:"Raw controller sample log file path (default: stdout on trace, otherwise off)" type:"path" env:"STRATAPAD_LOG_RAW_FILE"`
}

// Loggers are the configured outputs. Close releases any opened files.
type Loggers struct {
	Logger *slog.Logger
	Raw    RawLogger

	files []io.Closer
}

// Close closes the log files.
func (l *Loggers) Close() error {
	var errs []error
	for _, f := range l.files {
		errs = append(errs, f.Close())
	}
	l.files = nil
	return errors.Join(errs...)
}

// ParseLevel maps a level name to its slog level, case-insensitively. The
// empty string is Info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "":
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// Setup builds the loggers for opts and installs the slog default.
func Setup(opts Options) (*Loggers, error) {
	return setup(opts, os.Stdout, os.Stderr)
}

func setup(opts Options, stdout, stderr *os.File) (*Loggers, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := &Loggers{}

	var h slog.Handler
	if opts.File == "" {
		h = splitHandler{
			low:  consoleHandler(stdout, level),
			high: consoleHandler(stderr, slog.LevelError),
		}
	} else {
		f, err := openTruncated(opts.File)
		if err != nil {
			return nil, err
		}
		out.files = append(out.files, f)
		h = fanout{
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
			slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}),
		}
	}
	out.Logger = slog.New(h)
	slog.SetDefault(out.Logger)

	switch {
	case opts.RawFile != "":
		f, err := openTruncated(opts.RawFile)
		if err != nil {
			out.Logger.Error("Failed to open raw log file", "file", opts.RawFile, "error", err)
			out.Raw = NewRaw(nil)
			break
		}
		out.files = append(out.files, f)
		out.Raw = NewRaw(f)
	case level <= LevelTrace:
		out.Raw = NewRaw(stdout)
	default:
		out.Raw = NewRaw(nil)
	}
	return out, nil
}

func openTruncated(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func consoleHandler(f *os.File, level slog.Level) slog.Handler {
	if term.IsTerminal(int(f.Fd())) {
		return newColorHandler(f, level)
	}
	return slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
}
