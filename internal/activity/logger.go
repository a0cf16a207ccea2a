package activity

import (
	"strings"

	"go.uber.org/zap"

	"hermes/pkg/logger"
)

// Logger records agent activity through the structured log. Activity is
// advisory: a failed write must never surface to the caller, so this
// implementation has no error path at all.
type Logger struct {
	log *zap.SugaredLogger
}

// NewLogger creates an activity sink backed by the global logger.
func NewLogger() *Logger {
	return &Logger{log: logger.Get().Named("activity")}
}

// Log emits one activity record at the requested level.
func (l *Logger) Log(agent, message, level string, data map[string]interface{}) {
	fields := make([]interface{}, 0, 2+len(data)*2)
	fields = append(fields, "agent", agent)
	for k, v := range data {
		fields = append(fields, k, v)
	}

	switch strings.ToLower(level) {
	case "debug":
		l.log.Debugw(message, fields...)
	case "warn", "warning":
		l.log.Warnw(message, fields...)
	case "error":
		l.log.Errorw(message, fields...)
	default:
		l.log.Infow(message, fields...)
	}
}
