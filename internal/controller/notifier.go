package controller

import "github.com/sirupsen/logrus"

// Kind classifies a user-facing notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notifier surfaces toast-style notifications to whatever UI hosts the
// session. It is injected rather than reached as a global.
type Notifier interface {
	Notify(kind Kind, title, detail string)
}

// LogNotifier routes notifications to the logger. The CLI uses it directly;
// a real UI would supply its own implementation.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(kind Kind, title, detail string) {
	entry := n.log.WithFields(logrus.Fields{"title": title, "detail": detail})
	switch kind {
	case KindError:
		entry.Error("notification")
	case KindWarning:
		entry.Warn("notification")
	default:
		entry.Info("notification")
	}
}
