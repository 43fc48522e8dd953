package model

import "testing"

func TestDiscardLoggerWorksAsIntended(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("foo")
	logger.Debugf("%s", "foo")
	logger.Info("foo")
	logger.Infof("%s", "foo")
	logger.Warn("foo")
	logger.Warnf("%s", "foo")
}

func TestValidLoggerOrDefault(t *testing.T) {
	t.Run("with nil argument", func(t *testing.T) {
		logger := ValidLoggerOrDefault(nil)
		if logger != DiscardLogger {
			t.Fatal("expected the discard logger")
		}
	})

	t.Run("with non-nil argument", func(t *testing.T) {
		underlying := &savingLogger{}
		logger := ValidLoggerOrDefault(underlying)
		if logger != underlying {
			t.Fatal("expected the logger we passed in")
		}
	})
}

// savingLogger saves the messages it receives.
type savingLogger struct {
	messages []string
}

func (sl *savingLogger) Debug(msg string) {
	sl.messages = append(sl.messages, msg)
}

func (sl *savingLogger) Debugf(format string, v ...interface{}) {}

func (sl *savingLogger) Info(msg string) {
	sl.messages = append(sl.messages, msg)
}

func (sl *savingLogger) Infof(format string, v ...interface{}) {}

func (sl *savingLogger) Warn(msg string) {
	sl.messages = append(sl.messages, msg)
}

func (sl *savingLogger) Warnf(format string, v ...interface{}) {}
