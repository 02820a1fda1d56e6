package session

import "k8s.io/klog/v2"

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notification is a user-facing message (a toast in the TUI).
type Notification struct {
	Level   Level
	Message string
	// Key is the photo the message is about, if any.
	Key string
}

// Notifier receives user-facing notifications from a session.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier reports notifications through klog. It is the default sink.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	if n.Level == LevelError {
		klog.Errorf("%s", n.Message)
		return
	}
	klog.Infof("%s", n.Message)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}
