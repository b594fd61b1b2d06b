package internal

import (
	"fmt"
	"log"
	"time"

	"cyberpay/entity"
	"cyberpay/services"
)

// Logger writes leveled messages to standard output and, when a database is
// available, persists them through the database collaborator. Debug output
// is gated by the debug flag; callers are responsible for never passing
// secrets or card data into messages.
type Logger struct {
	name  string
	debug bool
	db    services.Database
}

func NewLogger(name string, debug bool, db services.Database) *Logger {
	return &Logger{
		name:  name,
		debug: debug,
		db:    db,
	}
}

func (l *Logger) Debug(message string) {
	if !l.debug {
		return
	}
	l.write("DEBUG", message)
}

func (l *Logger) Info(message string) {
	l.write("INFO", message)
}

func (l *Logger) Warn(message string) {
	l.write("WARN", message)
}

func (l *Logger) Error(message string, err error) {
	l.write("ERROR", fmt.Sprintf("%s: %v", message, err))
}

func (l *Logger) write(level, message string) {
	log.Printf("%s\t%s: %s", level, l.name, message)
	if l.db == nil {
		return
	}
	record := &entity.LogMessage{
		Time:   time.Now(),
		Level:  level,
		Source: l.name,
		Text:   message,
	}
	if err := l.db.WriteLogMessage(record); err != nil {
		log.Printf("ERROR\t%s: write log message: %v", l.name, err)
	}
}
