package api

import "go.uber.org/zap"

// CallEvent records metadata about a single report server call.
type CallEvent struct {
	Endpoint  string
	RequestID string
	LatencyMs int64
	Status    int
	Success   bool
	ErrorCode string
}

// Observer receives events about report server calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an Observer that logs events to log.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("endpoint", event.Endpoint),
		zap.String("request_id", event.RequestID),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Int("status", event.Status),
	}
	if event.Success {
		o.log.Debug("api call", fields...)
		return
	}
	o.log.Warn("api call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
