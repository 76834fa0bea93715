// Package logging configures the process-wide zerolog logger and the
// rotating error log that prediction failures are appended to.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"flight-delay/internal/common"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level        string
	Format       string // console or json
	ErrorLogPath string // empty disables the error log
	Output       io.Writer
}

// New builds a logger from opts. The returned closer releases the error log
// file and is never nil.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	switch opts.Format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("unknown log format %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	if opts.ErrorLogPath != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.ErrorLogPath,
			MaxSize:    common.DefaultErrorLogMaxMB,
			MaxBackups: common.DefaultErrorLogBackups,
		}
		out = zerolog.MultiLevelWriter(out, &errorFilter{w: rotating})
		closer = rotating
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// Setup installs the logger built from opts as the global zerolog logger.
func Setup(opts Options) (io.Closer, error) {
	logger, closer, err := New(opts)
	if err != nil {
		return closer, err
	}
	log.Logger = logger
	return closer, nil
}

func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// errorFilter forwards only error-and-above events.
type errorFilter struct {
	w io.Writer
}

func (f *errorFilter) Write(p []byte) (int, error) {
	return len(p), nil
}

func (f *errorFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.ErrorLevel || level == zerolog.NoLevel || level == zerolog.Disabled {
		return len(p), nil
	}
	return f.w.Write(p)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
