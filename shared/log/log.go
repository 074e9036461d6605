package log

import (
	"context"
	"github.com/hyperdxio/opentelemetry-go/otelzap"
	"github.com/hyperdxio/opentelemetry-logs-go/exporters/otlp/otlplogs"
	sdk "github.com/hyperdxio/opentelemetry-logs-go/sdk/logs"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

// InitLogger writes to the console and, when an OTLP endpoint is reachable, to the log exporter.
func InitLogger(ctx context.Context) *zap.Logger {
	consoleDebugging := zapcore.Lock(os.Stdout)
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	console := zapcore.NewCore(consoleEncoder, consoleDebugging, zap.DebugLevel)

	logExporter, err := otlplogs.NewExporter(ctx)
	if err != nil {
		logger := zap.New(console)
		logger.Warn("OTLP log exporter unavailable, logging to console only", zap.Error(err))
		return logger
	}

	loggerProvider := sdk.NewLoggerProvider(
		sdk.WithBatcher(logExporter),
	)

	return zap.New(zapcore.NewTee(
		otelzap.NewOtelCore(loggerProvider),
		console,
	))
}

func LoggerWithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanContext.TraceID().String()),
		zap.String("span_id", spanContext.SpanID().String()),
	)
}
