// Package config exposes typed, read-only access to runtime configuration.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values as durations in the named unit.
type TimeConfig interface {
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration
}

// NumberConfig reads numeric values. Missing or malformed keys yield zero.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint16(key string) uint16
	GetFloat64(key string) float64
}

// Config is the application configuration.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	GetBool(key string) bool
	GetString(key string) string
	// GetBinary decodes a base64 value; nil when absent or malformed.
	GetBinary(key string) []byte
	// GetArray reads a YAML list or a comma separated string, trimming and
	// dropping empty items.
	GetArray(key string) []string
	// GetMap reads "k:v,k:v" pairs.
	GetMap(key string) map[string]string
	IsSet(key string) bool
}
