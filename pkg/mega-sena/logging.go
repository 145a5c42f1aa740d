package megasena

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var packageLogger atomic.Pointer[logrus.Entry]

func init() {
	packageLogger.Store(logrus.NewEntry(logrus.StandardLogger()).WithField("pkg", "megasena"))
}

// SetLogger replaces the logger used by components built without an explicit one
func SetLogger(entry *logrus.Entry) {
	if entry == nil {
		return
	}
	packageLogger.Store(entry.WithField("pkg", "megasena"))
}

func componentLogger(entry *logrus.Entry, component string) *logrus.Entry {
	if entry == nil {
		entry = packageLogger.Load()
	}
	return entry.WithField("component", component)
}
