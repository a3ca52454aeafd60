package logger

import (
	"fmt"
	"io"
	stdlog "log"

	"github.com/rs/zerolog"

	"filetrail/internal/config"
)

// New builds the root zerolog logger from the log configuration section.
// Console output is always enabled; file output with rotation is added when
// a log file path is configured.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}
	format := ParseFormat(cfg.LogFormat)

	writers := []io.Writer{NewConsoleWriter(format)}
	if cfg.LogFile != "" {
		if cfg.MaxLogSizeMB <= 0 {
			return zerolog.Logger{}, fmt.Errorf("max_log_size_mb must be positive, got %d", cfg.MaxLogSizeMB)
		}
		fileWriter, err := NewFileWriter(cfg, format)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)

	return logger, nil
}
