// Package adlog provides the package-level structured logger used across
// the snapshot, index, and collector stages.
package adlog

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
	once  sync.Once
)

func init() {
	once.Do(func() {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	})
}

func initLogger() {
	if sugar != nil {
		return
	}

	consoleEncoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
	})

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.Lock(os.Stderr),
		level,
	)

	sugar = zap.New(core).Sugar()
}

// SetLevel sets the minimum log level (debug, info, warn, error, fatal, panic).
// Returns an error if the level is invalid.
func SetLevel(l string) error {
	switch l {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "info":
		level.SetLevel(zapcore.InfoLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	case "panic":
		level.SetLevel(zapcore.PanicLevel)
	default:
		return fmt.Errorf("invalid log level: %s", l)
	}
	return nil
}

// SetVerbose lowers the atomic level to Debug when v is true, or raises
// it back to Info otherwise.
func SetVerbose(v bool) {
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

func Info(args ...any)                       { initLogger(); sugar.Info(args...) }
func Infoln(args ...any)                     { initLogger(); sugar.Infoln(args...) }
func Infof(format string, args ...any)       { initLogger(); sugar.Infof(format, args...) }
func Infow(msg string, keysAndValues ...any) { initLogger(); sugar.Infow(msg, keysAndValues...) }

func Debug(args ...any)                       { initLogger(); sugar.Debug(args...) }
func Debugln(args ...any)                     { initLogger(); sugar.Debugln(args...) }
func Debugf(format string, args ...any)       { initLogger(); sugar.Debugf(format, args...) }
func Debugw(msg string, keysAndValues ...any) { initLogger(); sugar.Debugw(msg, keysAndValues...) }

func Warn(args ...any)                       { initLogger(); sugar.Warn(args...) }
func Warnln(args ...any)                     { initLogger(); sugar.Warnln(args...) }
func Warnf(format string, args ...any)       { initLogger(); sugar.Warnf(format, args...) }
func Warnw(msg string, keysAndValues ...any) { initLogger(); sugar.Warnw(msg, keysAndValues...) }

func Error(args ...any)                       { initLogger(); sugar.Error(args...) }
func Errorln(args ...any)                     { initLogger(); sugar.Errorln(args...) }
func Errorf(format string, args ...any)       { initLogger(); sugar.Errorf(format, args...) }
func Errorw(msg string, keysAndValues ...any) { initLogger(); sugar.Errorw(msg, keysAndValues...) }

func Fatal(args ...any)                       { initLogger(); sugar.Fatal(args...) }
func Fatalln(args ...any)                     { initLogger(); sugar.Fatalln(args...) }
func Fatalf(format string, args ...any)       { initLogger(); sugar.Fatalf(format, args...) }
func Fatalw(msg string, keysAndValues ...any) { initLogger(); sugar.Fatalw(msg, keysAndValues...) }

// Sync flushes the log buffer and returns any error.
func Sync() error {
	if sugar != nil {
		return sugar.Sync()
	}
	return nil
}
