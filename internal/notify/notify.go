// Package notify raises desktop notifications and short audio cues.
package notify

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/beeep"

	"streamcounter/internal/counter"
)

// DefaultCooldown suppresses repeats of the same notification title.
const DefaultCooldown = 5 * time.Second

// Test seams for the OS notification and speaker calls.
var (
	notifyFn = beeep.Notify
	beepFn   = beeep.Beep
	nowFn    = time.Now
)

// Notifier sends notifications when enabled and plays cues when beeping is
// enabled. The zero value is not usable; call New.
type Notifier struct {
	enabled  atomic.Bool
	beep     atomic.Bool
	cooldown time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// New returns a notifier. appName is shown as the notification source on
// platforms that display one.
func New(appName string, notifications, beep bool) *Notifier {
	if strings.TrimSpace(appName) != "" {
		beeep.AppName = appName
	}
	n := &Notifier{
		cooldown: DefaultCooldown,
		last:     make(map[string]time.Time),
	}
	n.enabled.Store(notifications)
	n.beep.Store(beep)
	return n
}

func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

func (n *Notifier) SetBeep(enabled bool) {
	n.beep.Store(enabled)
}

// Notify shows a desktop notification. It reports whether one was sent:
// disabled notifiers, repeats inside the cooldown and OS failures return
// false. Failures are logged and never returned.
func (n *Notifier) Notify(title, message string) bool {
	if n == nil || !n.enabled.Load() {
		return false
	}
	now := nowFn()
	n.mu.Lock()
	if last, ok := n.last[title]; ok && now.Sub(last) < n.cooldown {
		n.mu.Unlock()
		slog.Debug("[DEBUG-NOTIFY] notification suppressed by cooldown", "title", title)
		return false
	}
	n.last[title] = now
	n.mu.Unlock()

	if err := notifyFn(title, message, ""); err != nil {
		slog.Warn("[WARN-NOTIFY] desktop notification failed", "title", title, "error", err)
		return false
	}
	return true
}

// Cue plays a short tone for a counter change: a base tone for increment,
// a lower one for decrement and a longer high one for reset.
func (n *Notifier) Cue(op counter.Op) bool {
	if n == nil || !n.beep.Load() {
		return false
	}
	freq, duration := cueTone(op)
	if err := beepFn(freq, duration); err != nil {
		slog.Debug("[DEBUG-NOTIFY] beep failed", "op", op.String(), "error", err)
		return false
	}
	return true
}

func cueTone(op counter.Op) (float64, int) {
	switch op {
	case counter.OpDecrement:
		return beeep.DefaultFreq / 2, beeep.DefaultDuration / 2
	case counter.OpReset:
		return beeep.DefaultFreq * 2, beeep.DefaultDuration
	default:
		return beeep.DefaultFreq, beeep.DefaultDuration / 2
	}
}
