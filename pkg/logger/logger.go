package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared application logger.
var Log *zap.Logger

// InitLogger builds the global zap logger. Debug mode gets the console
// encoder, everything else JSON for log collection.
func InitLogger(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	Log = l
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
