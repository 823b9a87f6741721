package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

type LogLevel int

const (
	INFO LogLevel = iota
	WARN
	ERROR
	DEBUG
)

type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	file        *os.File
}

// Init opens logPath for appending and mirrors every line to stdout
func (l *Logger) Init(logPath string) error {
	if logPath == "" {
		return fmt.Errorf("log path not configured")
	}

	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.file = file
	l.attach(io.MultiWriter(file, os.Stdout))
	return nil
}

func (l *Logger) attach(w io.Writer) {
	l.infoLogger = log.New(w, "INFO:  ", log.Ldate|log.Ltime|log.Lshortfile)
	l.warnLogger = log.New(w, "WARN:  ", log.Ldate|log.Ltime|log.Lshortfile)
	l.errorLogger = log.New(w, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	l.debugLogger = log.New(w, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Info(v ...any) {
	l.infoLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Infof(format string, v ...any) {
	l.infoLogger.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(v ...any) {
	l.warnLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Warnf(format string, v ...any) {
	l.warnLogger.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Error(v ...any) {
	l.errorLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Errorf(format string, v ...any) {
	l.errorLogger.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Debug(v ...any) {
	l.debugLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Debugf(format string, v ...any) {
	l.debugLogger.Output(2, fmt.Sprintf(format, v...))
}
