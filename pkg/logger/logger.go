package logger

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap with otelzap so every log line carries the active trace
// and span ids.
type Logger struct {
	*otelzap.Logger
}

func New(environment string) (*Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &Logger{Logger: otelzap.New(zapLogger)}, nil
}
