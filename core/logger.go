package core

// Logger reports events to the configured logging backends.
// args may hold errors, map[string]interface{} extras and the acting Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies who triggered a logged event.
type Person struct {
	ID    string
	Name  string
	Admin bool
}
