package logger

import (
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Gray   = "\033[90m"
)

var (
	outMu  sync.RWMutex
	output io.Writer = os.Stdout
	debug  bool
)

// SetOutput redirects every logger created by NewLogger, including the ones
// created before the call.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	output = w
}

// SetDebug toggles Debug/Debugf output.
func SetDebug(enabled bool) {
	outMu.Lock()
	defer outMu.Unlock()
	debug = enabled
}

// FileSink returns a size/age rotated log file writer.
func FileSink(filename string, maxSizeMB, maxAgeDays int) io.Writer {
	return &lumberjack.Logger{
		Filename: filename,
		MaxSize:  maxSizeMB,
		MaxAge:   maxAgeDays,
	}
}

type sharedWriter struct{}

func (sharedWriter) Write(p []byte) (int, error) {
	outMu.RLock()
	w := output
	outMu.RUnlock()
	return w.Write(p)
}

type Logger struct {
	logger *log.Logger
	mu     sync.Mutex
}

func NewLogger() *Logger {
	return &Logger{
		logger: log.New(sharedWriter{}, "", log.LstdFlags),
	}
}

func (l *Logger) println(prefix string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetPrefix(prefix)
	l.logger.Println(v...)
}

func (l *Logger) printf(prefix, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetPrefix(prefix)
	l.logger.Printf(format, v...)
}

func debugEnabled() bool {
	outMu.RLock()
	defer outMu.RUnlock()
	return debug
}

func (l *Logger) Debug(v ...interface{}) {
	if debugEnabled() {
		l.println(Gray+"[DEBUG] "+Reset, v...)
	}
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if debugEnabled() {
		l.printf(Gray+"[DEBUG] "+Reset, format, v...)
	}
}

func (l *Logger) Info(v ...interface{}) {
	l.println(Blue+"[INFO] "+Reset, v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.printf(Blue+"[INFO] "+Reset, format, v...)
}

func (l *Logger) Success(v ...interface{}) {
	l.println(Green+"[SUCCESS] "+Reset, v...)
}

func (l *Logger) Successf(format string, v ...interface{}) {
	l.printf(Green+"[SUCCESS] "+Reset, format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.println(Yellow+"[WARN] "+Reset, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.printf(Yellow+"[WARN] "+Reset, format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.println(Red+"[ERROR] "+Reset, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.printf(Red+"[ERROR] "+Reset, format, v...)
}
