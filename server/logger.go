package server

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process-wide logger. It discards everything until InitLogger
// runs; the terminal belongs to the game, so logs only ever go to a file.
var Log = zap.NewNop().Sugar()

// logLevel gates Log and can be changed while the match runs.
var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// InitLogger sends logs at level and above to a rotating file.
func InitLogger(filePath, level string) error {
	if err := SetLogLevel(level); err != nil {
		return err
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(fileEncoderConfig()),
		zapcore.AddSync(rotatingFile(filePath)),
		logLevel,
	)
	Log = zap.New(core, zap.AddCaller()).Sugar()
	return nil
}

// SetLogLevel changes the minimum level of Log.
func SetLogLevel(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logLevel.SetLevel(lvl)
	return nil
}

// LogLevel is the current minimum level of Log.
func LogLevel() string { return logLevel.Level().String() }

// SyncLogger flushes buffered entries.
func SyncLogger() {
	_ = Log.Sync()
}

func rotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{Filename: path, MaxSize: 5, MaxBackups: 2}
}

// fileEncoderConfig is the production layout with readable times and levels.
func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
