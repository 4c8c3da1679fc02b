package logging

import (
	"time"
)

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

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func Source(location string) Field {
	return String("source", location)
}

func Generation(id string) Field {
	return String("generation", id)
}

func EdgeKey(key string) Field {
	return String("edge", key)
}

func Score(v float64) Field {
	return Float64("score", v)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Edges(n int) Field {
	return Int("edges", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func RequestID(id string) Field {
	return String("request_id", id)
}

func Path(p string) Field {
	return String("path", p)
}
