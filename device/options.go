package device

import "time"

// Config holds the programmer configuration.
type Config struct {
	// Timeout bounds each register transfer. Applied as a context
	// deadline around every transport call.
	Timeout time.Duration

	// Logger is used for logging operations (optional)
	Logger Logger

	// ResetAfterWrite issues a device reset after WriteEEPROM so the
	// device re-reads its descriptors.
	ResetAfterWrite bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Timeout: 300 * time.Millisecond,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithTimeout sets the per-transfer timeout.
//
// Example:
//
//	prog := device.New(tr, device.WithTimeout(time.Second))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithLogger sets a logger for the programmer operations.
//
// Example:
//
//	prog := device.New(tr, device.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithResetAfterWrite makes WriteEEPROM reset the device once the image
// is written.
func WithResetAfterWrite(reset bool) Option {
	return func(c *Config) {
		c.ResetAfterWrite = reset
	}
}

// Logger is an optional logging interface that can be provided to the
// programmer. This allows integration with any logging framework.
//
// Example with the standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
