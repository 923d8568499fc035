// Package notify delivers user-facing success and error messages.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Notifier receives toasts. Delivery is fire-and-forget.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that writes toasts to the log
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Success(_ context.Context, msg string) {
	n.logger.Info("toast", zap.String("kind", "success"), zap.String("message", msg))
}

func (n *logNotifier) Error(_ context.Context, msg string) {
	n.logger.Warn("toast", zap.String("kind", "error"), zap.String("message", msg))
}

// Toast is one recorded message
type Toast struct {
	Kind    string
	Message string
}

// Recorder keeps every toast in memory
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(_ context.Context, msg string) {
	r.record("success", msg)
}

func (r *Recorder) Error(_ context.Context, msg string) {
	r.record("error", msg)
}

// Toasts returns the recorded toasts in order
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// Last returns the most recent toast
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

func (r *Recorder) record(kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Kind: kind, Message: msg})
}
