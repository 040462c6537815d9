package session

import "log"

// Notifier delivers blocking, user-facing notifications: Alert shows a
// message, Confirm asks a yes/no question and reports the answer. The
// front-end decides how to present them; the session only decides when.
type Notifier interface {
	Alert(message string)
	Confirm(message string) bool
}

// LogNotifier writes alerts to the process log and answers every
// confirmation with a fixed value. Used when no interactive front-end
// is attached.
type LogNotifier struct {
	ConfirmAnswer bool
}

func (n LogNotifier) Alert(message string) {
	log.Printf("ALERT: %s", message)
}

func (n LogNotifier) Confirm(message string) bool {
	log.Printf("CONFIRM (%v): %s", n.ConfirmAnswer, message)
	return n.ConfirmAnswer
}
