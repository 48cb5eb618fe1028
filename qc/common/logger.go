package common

import (
	"fmt"
	"log"
	"sync"
)

// Logger is a log utility to log to. Entries are retained so a session can
// report what happened once it completes.
type Logger struct {
	mu      sync.Mutex
	prefix  string
	Entries []*LogEntry
}

// Dbg prints an informational message
func (l *Logger) Dbg(format string, v ...interface{}) {
	log.Printf("%s%s\n", l.prefix, fmt.Sprintf(format, v...))
}

// Msg logs an informational message
func (l *Logger) Msg(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Printf("%s%s\n", l.prefix, msg)
	l.add(false, msg)
}

// Err logs an error message
func (l *Logger) Err(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Printf("%sError: %s\n", l.prefix, msg)
	l.add(true, msg)
}

// Fatal calls log.Fatalf
func (l *Logger) Fatal(format string, v ...interface{}) {
	log.Fatalf(l.prefix+format, v...)
}

// Errors returns the messages of all error entries.
func (l *Logger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []string
	for _, entry := range l.Entries {
		if entry.IsError {
			errs = append(errs, entry.Msg)
		}
	}
	return errs
}

func (l *Logger) add(isError bool, msg string) {
	l.mu.Lock()
	l.Entries = append(l.Entries, &LogEntry{IsError: isError, Msg: msg})
	l.mu.Unlock()
}

// NewLog creates a new logger
func NewLog() *Logger {
	return new(Logger)
}

// NewSessionLog creates a logger whose lines are tagged with the session id
func NewSessionLog(sessionID string) *Logger {
	return &Logger{prefix: fmt.Sprintf("[%s] ", sessionID)}
}

// LogEntry contains the message and metadata
type LogEntry struct {
	IsError bool
	Msg     string
}
