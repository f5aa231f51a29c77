package core

type (
	// Fields are extra key/values attached to a log entry.
	Fields map[string]interface{}

	// Logger is any service that can log messages.
	// expected args: error | Fields
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}
)
