// Package notify keeps the toast queue shown under the board and can mirror
// toasts to the desktop through notify-send.
package notify

import (
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for desktop notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Level is the kind of toast
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// DefaultTTL is how long a toast stays visible
const DefaultTTL = 3 * time.Second

// Toast is one in-app notification
type Toast struct {
	Message string
	Level   Level
	Expires time.Time
}

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier queues toasts and optionally forwards them to the desktop
type Notifier struct {
	desktop bool
	ttl     time.Duration
	toasts  []Toast

	now func() time.Time
	run func(name string, args ...string) error
}

// NewNotifier creates a notifier. desktop enables notify-send delivery.
func NewNotifier(desktop bool) *Notifier {
	return &Notifier{
		desktop: desktop,
		ttl:     DefaultTTL,
		now:     time.Now,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// SetEnabled enables or disables desktop delivery
func (n *Notifier) SetEnabled(enabled bool) {
	n.desktop = enabled
}

// IsEnabled returns whether desktop delivery is enabled
func (n *Notifier) IsEnabled() bool {
	return n.desktop
}

// Success queues a success toast
func (n *Notifier) Success(msg string) error {
	return n.Push(LevelSuccess, msg)
}

// Error queues an error toast
func (n *Notifier) Error(msg string) error {
	return n.Push(LevelError, msg)
}

// Info queues an informational toast
func (n *Notifier) Info(msg string) error {
	return n.Push(LevelInfo, msg)
}

// Push queues a toast. The returned error only reports desktop delivery;
// the toast is queued regardless.
func (n *Notifier) Push(level Level, msg string) error {
	n.toasts = append(n.toasts, Toast{
		Message: msg,
		Level:   level,
		Expires: n.now().Add(n.ttl),
	})

	urgency := UrgencyNormal
	switch level {
	case LevelInfo:
		urgency = UrgencyLow
	case LevelError:
		urgency = UrgencyCritical
	}
	return n.Send(Notification{
		Title:   "lanes",
		Body:    msg,
		Urgency: urgency,
		Timeout: n.ttl,
	})
}

// Active drops expired toasts and returns the rest, oldest first
func (n *Notifier) Active() []Toast {
	now := n.now()
	kept := n.toasts[:0]
	for _, t := range n.toasts {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	n.toasts = kept
	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.desktop {
		return nil
	}
	return n.run("notify-send", args(notification)...)
}

func args(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout is in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "lanes")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}
