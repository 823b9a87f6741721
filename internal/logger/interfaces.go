package logger

import (
	"io"

	"github.com/ryan-gang/vidmark/internal/config"
)

// LoggerInterface defines the interface for logging
type LoggerInterface interface {
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)
	Debug(v ...any)
	Debugf(format string, v ...any)
	Close() error
}

// NewLogger creates a logger writing to the configured log file and stdout
func NewLogger(cfg config.ConfigProvider) (LoggerInterface, error) {
	logger := &Logger{}
	if err := logger.Init(cfg.GetLogPath()); err != nil {
		return nil, err
	}
	return logger, nil
}

// NewWriterLogger creates a logger that writes only to w
func NewWriterLogger(w io.Writer) LoggerInterface {
	logger := &Logger{}
	logger.attach(w)
	return logger
}

// Discard returns a logger that drops everything
func Discard() LoggerInterface {
	return NewWriterLogger(io.Discard)
}
