package event

import "github.com/sirupsen/logrus"

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for registry and dispatch tracing. A nil
// logger restores the logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	log = l
}

// Logger returns the logger set by SetLogger, for packages building on event.
func Logger() logrus.FieldLogger {
	return log
}
