// Package observability builds the zap loggers shared by the CLI and the
// viewer.
package observability

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the logger's level, encoding and optional rotating file.
type Config struct {
	Level  string `mapstructure:"log-level"`
	Format string `mapstructure:"log-format"`
	Name   string `mapstructure:"name"`

	// File, when set, also writes JSON logs to a rotating file.
	File      string `mapstructure:"log-file"`
	MaxSizeMB int    `mapstructure:"log-max-size"`
}

// NewLogger builds a logger writing to stderr.
func NewLogger(cfg Config) *zap.Logger {
	return NewLoggerTo(cfg, zapcore.Lock(os.Stderr))
}

// NewLoggerTo builds a logger writing console output to w.
func NewLoggerTo(cfg Config, w io.Writer) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder(cfg.Format), zapcore.AddSync(w), level)}
	if cfg.File != "" {
		size := cfg.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    size,
			MaxBackups: 3,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), file, level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	if cfg.Name != "" {
		log = log.Named(cfg.Name)
	}
	return log
}

func encoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}
