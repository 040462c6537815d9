package handler

import "sync"

// promptNotifier adapts the session's blocking alert/confirm dialogs to
// the request/response surface. Alerts collect until the response is
// written; a confirmation prompt is answered by the "confirmed" flag of
// the current request, and when that flag is absent the prompt is
// returned to the front-end so it can ask the operator and repeat the
// request.
type promptNotifier struct {
	mu        sync.Mutex
	alerts    []string
	prompts   []string
	confirmed bool
}

func (n *promptNotifier) begin(confirmed bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = nil
	n.prompts = nil
	n.confirmed = confirmed
}

func (n *promptNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *promptNotifier) Confirm(message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.confirmed {
		n.prompts = append(n.prompts, message)
	}
	return n.confirmed
}

func (n *promptNotifier) drain() (alerts, prompts []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	alerts, prompts = n.alerts, n.prompts
	n.alerts, n.prompts = nil, nil
	return alerts, prompts
}
