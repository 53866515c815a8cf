package sqlmig

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger adapts a logrus logger to the Logger interface, so
// callers can control level, formatter and output.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func newDefaultLogger() Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return NewLogrusLogger(l)
}

func (l *logrusLogger) Debug(msg string, args ...any) {
	l.withFields(args).Debug(msg)
}

func (l *logrusLogger) Info(msg string, args ...any) {
	l.withFields(args).Info(msg)
}

func (l *logrusLogger) Warn(msg string, args ...any) {
	l.withFields(args).Warn(msg)
}

func (l *logrusLogger) Error(msg string, args ...any) {
	l.withFields(args).Error(msg)
}

// withFields converts alternating key/value args into logrus fields.
// A trailing key without a value is dropped.
func (l *logrusLogger) withFields(args []any) *logrus.Entry {
	if len(args) == 0 {
		return l.entry
	}

	fields := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}
	return l.entry.WithFields(fields)
}
