// Package progress emits the newline-delimited JSON event stream that
// scripted callers consume while a rip is in flight. Every event is a
// single JSON object carrying a status field and a message field.
package progress

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Well-known event statuses. Poll responses may surface raw service
// statuses beyond these.
const (
	StatusInfo        = "info"
	StatusDebug       = "debug"
	StatusWarning     = "warning"
	StatusPending     = "pending"
	StatusDownloading = "downloading"
)

// Reporter writes progress events as one JSON object per line
type Reporter struct {
	logger *zap.Logger
}

// NewReporter creates a Reporter writing to w, filtered at the given level.
// The encoder emits only the message and per-event fields so the stream
// stays free of timestamps and caller annotations.
func NewReporter(w io.Writer, level zapcore.Level) *Reporter {
	encCfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       zapcore.OmitKey,
		TimeKey:        zapcore.OmitKey,
		NameKey:        zapcore.OmitKey,
		CallerKey:      zapcore.OmitKey,
		StacktraceKey:  zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		level,
	)

	return &Reporter{logger: zap.New(core)}
}

// ParseLevel maps a LOG_LEVEL configuration value onto a zap level.
// Unknown values fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Info emits an informational event
func (r *Reporter) Info(message string, fields ...zap.Field) {
	r.logger.Info(message, withStatus(StatusInfo, fields)...)
}

// Debug emits a diagnostic event, suppressed above debug level
func (r *Reporter) Debug(message string, fields ...zap.Field) {
	r.logger.Debug(message, withStatus(StatusDebug, fields)...)
}

// Warning emits a recoverable-problem event
func (r *Reporter) Warning(message string, fields ...zap.Field) {
	r.logger.Warn(message, withStatus(StatusWarning, fields)...)
}

// Event emits an event with an arbitrary status, such as a raw status
// forwarded from a service poll response
func (r *Reporter) Event(status, message string, fields ...zap.Field) {
	r.logger.Info(message, withStatus(status, fields)...)
}

// Sync flushes any buffered events
func (r *Reporter) Sync() error {
	return r.logger.Sync()
}

func withStatus(status string, fields []zap.Field) []zap.Field {
	return append([]zap.Field{zap.String("status", status)}, fields...)
}
