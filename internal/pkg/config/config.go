package config

import (
	"io"
	"time"
)

// TimeConfig reads integer configuration values as durations of a fixed unit.
type TimeConfig interface {
	// GetMillisecond interprets the value under key as milliseconds.
	GetMillisecond(key string) time.Duration

	// GetSecond interprets the value under key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute interprets the value under key as minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys and values that cannot be converted yield the zero value of the
// requested type; use Has to tell the two apart.
type Config interface {
	io.Closer
	TimeConfig

	// Has reports whether key is set by the file or the environment.
	Has(key string) bool

	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray splits a value stored as <element1>,<element2>,... Blank
	// elements are dropped.
	GetArray(key string) []string

	// GetMap parses a value stored as <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
