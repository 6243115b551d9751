package common

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger starts as a no-op so packages can log before InitLogger runs
// (and tests do not have to set it up).
var Logger = zap.NewNop()

func InitLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Logger, err = config.Build()
	if err != nil {
		panic(err)
	}
}
