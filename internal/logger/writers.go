package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"filetrail/internal/config"
)

// NewConsoleWriter creates the stderr writer for the given format. JSON
// format writes raw zerolog output; console and text formats use the
// human-readable console writer.
func NewConsoleWriter(format LogFormat) io.Writer {
	if format == FormatJSON {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    format == FormatText,
	}
}

// NewFileWriter creates a rotating file writer for the configured log file.
// File output is always JSON regardless of console format; rotated files
// keep MaxLogBackups generations.
func NewFileWriter(cfg config.LogConfig, format LogFormat) (io.Writer, error) {
	logDir := filepath.Dir(cfg.LogFile)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxLogSizeMB,
		MaxBackups: cfg.MaxLogBackups,
		LocalTime:  true,
	}

	if format == FormatConsole || format == FormatText {
		return zerolog.ConsoleWriter{
			Out:        fileWriter,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}, nil
	}
	return fileWriter, nil
}
