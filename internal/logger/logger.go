// Package logger is the structured logging facade used across the game.
package logger

// Logger is the logging interface handed to every component.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// Keys with special handling in the zap conversion.
const (
	KeyRoundID   = "round_id"
	KeyComponent = "component"
	KeyError     = "error"
)

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err wraps an error as a Field under the "error" key.
func Err(err error) Field {
	return Field{Key: KeyError, Value: err}
}

// RoundID tags an entry with the round it belongs to.
func RoundID(id string) Field {
	return Field{Key: KeyRoundID, Value: id}
}
