package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for the engine's common context

func Component(name string) Field {
	return String("component", name)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func Port(name string) Field {
	return String("port", name)
}

func Iteration(n int) Field {
	return Int("iteration", n)
}

func Delta(d float64) Field {
	return Float64("delta", d)
}

func SignatureID(id string) Field {
	return String("signature_id", id)
}

func Metric(name string) Field {
	return String("metric", name)
}

func Sample(i int) Field {
	return Int("sample", i)
}

func Count(n int) Field {
	return Int("count", n)
}

func RequestID(id string) Field {
	return String("request_id", id)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
