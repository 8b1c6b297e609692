package storagedapp

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Notification titles.
const (
	TitleSuccess        = "Success"
	TitleError          = "Error"
	TitleWalletRequired = "Wallet Required"
	TitleNoAccounts     = "No Accounts"
)

// Variant selects how a notification is displayed.
type Variant uint8

const (
	// VariantDefault is used for informational and success messages.
	VariantDefault Variant = iota

	// VariantDestructive is used for errors.
	VariantDestructive
)

func (v Variant) String() string {
	if v == VariantDestructive {
		return "destructive"
	}
	return "default"
}

// MarshalText encodes the variant by name.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a variant name.
func (v *Variant) UnmarshalText(text []byte) error {
	switch string(text) {
	case "default":
		*v = VariantDefault
	case "destructive":
		*v = VariantDestructive
	default:
		return fmt.Errorf("unknown notification variant %q", text)
	}
	return nil
}

// Notification is a transient message for the user.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     Variant   `json:"variant"`
	Time        time.Time `json:"time"`
}

// Notifier displays notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// MultiNotifier returns a Notifier that forwards to every non-nil notifier.
func MultiNotifier(notifiers ...Notifier) Notifier {
	out := make(multiNotifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	log log.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses the root logger.
func NewLogNotifier(logger log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Root()
	}
	return &LogNotifier{log: logger}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(n Notification) {
	if n.Variant == VariantDestructive {
		l.log.Warn(n.Title, "description", n.Description)
		return
	}
	l.log.Info(n.Title, "description", n.Description)
}

// NotificationLog keeps the most recent notifications in memory until they
// are drained for display.
type NotificationLog struct {
	mu      sync.Mutex
	max     int
	pending []Notification
}

// NewNotificationLog creates a NotificationLog holding at most max entries.
// Older entries are dropped first.
func NewNotificationLog(max int) *NotificationLog {
	if max <= 0 {
		max = 1
	}
	return &NotificationLog{max: max}
}

// Notify implements Notifier.
func (l *NotificationLog) Notify(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, n)
	if over := len(l.pending) - l.max; over > 0 {
		l.pending = append(l.pending[:0], l.pending[over:]...)
	}
}

// Pending returns a copy of the undrained notifications, oldest first.
func (l *NotificationLog) Pending() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.pending))
	copy(out, l.pending)
	return out
}

// Drain returns the undrained notifications and clears them.
func (l *NotificationLog) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.pending
	l.pending = nil
	return out
}
