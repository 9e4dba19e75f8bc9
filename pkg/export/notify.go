package export

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Variant styles a notification.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is the transient message shown after a copy attempt.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

var (
	// CopiedNotification is sent after a successful copy.
	CopiedNotification = Notification{
		Title:       "Signature Copied!",
		Description: "The HTML signature has been copied to your clipboard.",
		Variant:     VariantDefault,
	}
	// FailedNotification is sent when the clipboard rejects the write.
	FailedNotification = Notification{
		Title:       "Copy Failed",
		Description: "Please try copying manually.",
		Variant:     VariantDestructive,
	}
)

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := []zap.Field{
		zap.String("description", n.Description),
		zap.String("variant", string(n.Variant)),
	}
	if n.Variant == VariantDestructive {
		logger.Warn(n.Title, fields...)
		return
	}
	logger.Info(n.Title, fields...)
}

// WriterNotifier prints each notification as one "Title Description" line.
type WriterNotifier struct {
	W io.Writer
}

func (w WriterNotifier) Notify(n Notification) {
	if w.W == nil {
		return
	}
	fmt.Fprintf(w.W, "%s %s\n", n.Title, n.Description)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications returns a copy of the received notifications.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
