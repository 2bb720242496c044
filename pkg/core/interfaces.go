package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything. Useful in tests and for quiet hosts.
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}
