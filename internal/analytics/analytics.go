// Package analytics emits structured product events. It is injected as a
// dependency rather than accessed as a process-wide singleton so tests
// can substitute or drop it.
package analytics

import "github.com/rs/zerolog"

type Event string

const (
	LoginSuccess     Event = "login_success"
	LoginFailed      Event = "login_failed"
	LogoutCompleted  Event = "logout_completed"
	CardSelected     Event = "card_selected"
	PaymentInitiated Event = "payment_initiated"
	PaymentSuccess   Event = "payment_success"
	PaymentFailed    Event = "payment_failed"
)

type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

// Log records one event. Safe to call on a nil Logger.
func (l *Logger) Log(event Event, fields map[string]interface{}) {
	if l == nil {
		return
	}
	ev := l.log.Info().Str("event", string(event))
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg("analytics")
}
