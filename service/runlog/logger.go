package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tokenmetrics/graderun/internal/clock"
)

const (
	// FileStampLayout names the log file, e.g. grader_run_20250102_150405.log.
	FileStampLayout = "20060102_150405"
	// LineStampLayout timestamps every log line.
	LineStampLayout = "2006-01-02 15:04:05"

	fileExt = ".log"
)

// Option customises a Logger.
type Option func(l *Logger)

// WithColor toggles ANSI colours on the console sink. The log file always
// receives plain text.
func WithColor(enabled bool) Option {
	return func(l *Logger) { l.color = enabled }
}

// Logger mirrors leveled, timestamped lines to the console and to the
// active run log file. The file handle is append-only and single-writer.
type Logger struct {
	console io.Writer
	file    *os.File
	path    string
	color   bool
	mux     sync.Mutex
}

// New ensures dir exists and opens a fresh, uniquely named log file in it.
// The file name embeds the creation timestamp so that consecutive runs never
// share a file.
func New(dir, prefix string, console io.Writer, options ...Option) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure log directory %s: %w", dir, err)
	}
	name := prefix + "_" + clock.Now().Format(FileStampLayout) + fileExt
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	ret := &Logger{console: console, file: file, path: path}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

// Path returns the location of the active log file.
func (l *Logger) Path() string { return l.path }

// Infof logs an informational milestone.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

// Errorf logs a failure.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

// Successf logs a completed milestone.
func (l *Logger) Successf(format string, args ...interface{}) {
	l.logf(LevelSuccess, format, args...)
}

// Warningf logs an advisory condition that does not block the run.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.logf(LevelWarning, format, args...)
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	stamp := clock.Now().Format(LineStampLayout)
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.console != nil {
		tag := "[" + string(level) + "]"
		if l.color {
			tag = level.color() + tag + colorReset
		}
		fmt.Fprintf(l.console, "%s[%s] %s\n", tag, stamp, message)
	}
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s][%s] %s\n", level, stamp, message)
	}
}

// Write mirrors raw subprocess output to both sinks, satisfying io.Writer.
func (l *Logger) Write(p []byte) (int, error) {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.console != nil {
		_, _ = l.console.Write(p)
	}
	if l.file != nil {
		return l.file.Write(p)
	}
	return len(p), nil
}

// FileWriter returns a sink that reaches the log file only, used for verbose
// subprocess output that would drown the console.
func (l *Logger) FileWriter() io.Writer {
	return &fileSink{logger: l}
}

// Close flushes and releases the underlying file. The file is never mutated
// after Close.
func (l *Logger) Close() error {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

type fileSink struct {
	logger *Logger
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.logger.mux.Lock()
	defer s.logger.mux.Unlock()
	if s.logger.file == nil {
		return len(p), nil
	}
	return s.logger.file.Write(p)
}
