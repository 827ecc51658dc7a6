package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/vango-dev/vango-store/pkg/storelog"
)

var _ storelog.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f storelog.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f storelog.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f storelog.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f storelog.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
