package logger

import (
	"catalog-api/internal/apperror"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new structured logger
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Always log to stdout for container compatibility
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// ErrorFields expands err into structured fields. The error kind and entity are
// kept separately so a 404 for a missing category can be told apart from a
// missing product in the logs.
func ErrorFields(err error) []zap.Field {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_kind", apperror.KindOf(err).String()),
	}
	if entity := apperror.EntityOf(err); entity != apperror.EntityNone {
		fields = append(fields, zap.String("error_entity", string(entity)))
	}
	return fields
}
