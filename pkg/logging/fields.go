package logging

import "time"

// Common field constructors.

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
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

// Domain field constructors used throughout the crawler.

// URL tags an entry with the descriptor URL being processed.
func URL(value string) Field {
	return Field{Key: "url", Value: value}
}

// Hop tags an entry with the frontier item's hop depth.
func Hop(value int) Field {
	return Field{Key: "hop", Value: value}
}

// Identity tags an entry with a switch identity.
func Identity(value string) Field {
	return Field{Key: "identity", Value: value}
}
