package handlers

import (
	"context"
	"log"
	"time"

	"dropin-checkout-api/models"
	"dropin-checkout-api/queue"
	"dropin-checkout-api/services/dropin"
)

// queueRunner dispatches a hook as a queued webhook job. Delivery, retries
// and backoff are the worker's problem; dispatch only records the intent.
type queueRunner struct {
	queue   *queue.Queue
	session *models.CheckoutSession
}

func (h *CheckoutHandler) newRunner(session *models.CheckoutSession) dropin.ActionRunner {
	return &queueRunner{queue: h.queue, session: session}
}

func (r *queueRunner) Run(hook dropin.Hook) {
	url := hookURL(r.session.Hooks, hook)
	if url == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.queue.Enqueue(ctx, queue.JobTypeActionHook, map[string]interface{}{
		"session_id": r.session.ID,
		"hook":       string(hook),
		"url":        url,
	})
	if err != nil {
		log.Printf("Failed to enqueue %s hook for session %s: %v", hook, r.session.ID, err)
	}
}

func hookURL(hooks models.ActionHooks, hook dropin.Hook) string {
	switch hook {
	case dropin.HookCreate:
		return hooks.OnCreate
	case dropin.HookDestroyStart:
		return hooks.OnDestroyStart
	case dropin.HookDestroyEnd:
		return hooks.OnDestroyEnd
	case dropin.HookError:
		return hooks.OnError
	case dropin.HookSubmit:
		return hooks.OnSubmit
	}
	return ""
}

// dbSink persists submission results for the session.
type dbSink struct {
	handler   *CheckoutHandler
	sessionID string
}

func (h *CheckoutHandler) newSink(sessionID string) dropin.ResultSink {
	return &dbSink{handler: h, sessionID: sessionID}
}

func (s *dbSink) SaveResult(nonce, deviceData string) error {
	return s.handler.db.SaveSubmissionResult(s.sessionID, nonce, deviceData)
}

// ExecutionReporter feeds the worker's hook delivery lifecycle back into
// each session's bridge. Only the on-submit hook carries an executing flag.
type ExecutionReporter struct {
	registry *dropin.Registry
}

func NewExecutionReporter(registry *dropin.Registry) *ExecutionReporter {
	return &ExecutionReporter{registry: registry}
}

func (t *ExecutionReporter) ActionStarted(sessionID, hook string) {
	if dropin.Hook(hook) != dropin.HookSubmit {
		return
	}
	if entry, ok := t.registry.Get(sessionID); ok {
		entry.Bridge.SetExecuting(true)
	}
}

func (t *ExecutionReporter) ActionFinished(sessionID, hook string) {
	if dropin.Hook(hook) != dropin.HookSubmit {
		return
	}
	if entry, ok := t.registry.Get(sessionID); ok {
		entry.Bridge.SetExecuting(false)
	}
}
