package dropin

import (
	"log"
	"sync"

	"dropin-checkout-api/models"
)

// State is the lifecycle bridge state. The happy path walks Idle ->
// Created -> Submitting -> SubmitSucceeded -> Idle; Destroying/Destroyed
// are reachable from anywhere.
type State string

const (
	StateIdle            State = "idle"
	StateCreated         State = "created"
	StateSubmitting      State = "submitting"
	StateSubmitSucceeded State = "submitSucceeded"
	StateSubmitFailed    State = "submitFailed"
	StateDestroying      State = "destroying"
	StateDestroyed       State = "destroyed"
)

// Hook identifies one host action hook.
type Hook string

const (
	HookCreate       Hook = "onCreate"
	HookDestroyStart Hook = "onDestroyStart"
	HookDestroyEnd   Hook = "onDestroyEnd"
	HookError        Hook = "onError"
	HookSubmit       Hook = "onSubmit"
)

// ActionRunner dispatches a host action hook. Dispatch is fire-and-forget;
// completion of the on-submit action is reported back separately through
// SetExecuting.
type ActionRunner interface {
	Run(hook Hook)
}

// ResultSink receives the submission result exactly once per successful
// submission.
type ResultSink interface {
	SaveResult(nonce, deviceData string) error
}

// Indicator displays submission progress to the widget client. The bridge
// guarantees balanced Show/Hide calls; implementations need no idempotence
// of their own.
type Indicator interface {
	Show(message string, blocking bool)
	Hide()
}

// Bridge maps widget lifecycle events onto host-visible side effects. It
// owns the progress indicator outright: show and hide are idempotent here,
// every path that begins a submission has a matching path that ends it
// (success via the executing flag, error, or destroy), and the handle is
// never shared.
type Bridge struct {
	mu sync.Mutex

	state         State
	hooks         models.ActionHooks
	runner        ActionRunner
	sink          ResultSink
	indicator     Indicator
	progressShown bool
	executing     bool
}

func NewBridge(hooks models.ActionHooks, runner ActionRunner, sink ResultSink, indicator Indicator) *Bridge {
	return &Bridge{
		state:     StateIdle,
		hooks:     hooks,
		runner:    runner,
		sink:      sink,
		indicator: indicator,
	}
}

func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// HandleCreated fires once the widget finished initializing.
func (b *Bridge) HandleCreated() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateCreated
	b.run(HookCreate, b.hooks.OnCreate)
}

// BeginSubmit marks a host-initiated submission and shows progress unless
// the session disabled it. Once begun there is no abort path; the bridge
// waits for the widget to report success or error.
func (b *Bridge) BeginSubmit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateDestroying || b.state == StateDestroyed {
		return
	}
	b.state = StateSubmitting
	b.showProgress()
}

// HandlePaymentMethod consumes the widget's submission result. The result
// is persisted before the on-submit hook fires; the hook is skipped while
// a previous on-submit action is still executing. Progress stays visible
// until the executing flag falls.
func (b *Bridge) HandlePaymentMethod(nonce, deviceData string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateSubmitSucceeded

	if err := b.sink.SaveResult(nonce, deviceData); err != nil {
		log.Printf("Failed to persist submission result: %v", err)
		return err
	}
	if !b.executing {
		b.run(HookSubmit, b.hooks.OnSubmit)
	}
	return nil
}

// HandleError consumes any widget-reported error. The bridge does not
// classify or retry; it notifies the host and clears progress.
func (b *Bridge) HandleError(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateSubmitFailed
	log.Printf("Widget reported error: %s", message)
	b.run(HookError, b.hooks.OnError)
	b.hideProgress()
}

func (b *Bridge) HandleDestroyStart() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateDestroying
	b.run(HookDestroyStart, b.hooks.OnDestroyStart)
}

func (b *Bridge) HandleDestroyEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateDestroyed
	b.run(HookDestroyEnd, b.hooks.OnDestroyEnd)
	b.hideProgress()
}

// SetExecuting tracks the host's on-submit action executing flag. A rising
// edge shows progress, a falling edge hides it and settles a finished
// submission back to Idle. Repeated reports of the same value are no-ops,
// so progress is shown at most once per submission no matter how many
// render passes observe the flag.
func (b *Bridge) SetExecuting(executing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.executing == executing {
		return
	}
	b.executing = executing
	if executing {
		b.showProgress()
		return
	}
	b.hideProgress()
	if b.state == StateSubmitSucceeded || b.state == StateSubmitFailed {
		b.state = StateIdle
	}
}

// run dispatches a hook when it is configured. Callers hold b.mu.
func (b *Bridge) run(hook Hook, url string) {
	if url == "" || b.runner == nil {
		return
	}
	b.runner.Run(hook)
}

// showProgress is idempotent: at most one active indicator instance.
func (b *Bridge) showProgress() {
	if b.progressShown || b.indicator == nil {
		return
	}
	if b.hooks.ProgressMode == models.ProgressNone {
		return
	}
	b.indicator.Show(b.hooks.ProgressMessage, b.hooks.ProgressMode == models.ProgressBlocking)
	b.progressShown = true
}

// hideProgress is idempotent: hiding an indicator that is not showing does
// nothing.
func (b *Bridge) hideProgress() {
	if !b.progressShown {
		return
	}
	b.indicator.Hide()
	b.progressShown = false
}

// ProgressStatus is the visible state of the progress indicator.
type ProgressStatus struct {
	Shown    bool   `json:"shown"`
	Message  string `json:"message,omitempty"`
	Blocking bool   `json:"blocking,omitempty"`
}

// StatusIndicator is the default Indicator: it records the current status
// for the widget client to poll.
type StatusIndicator struct {
	mu     sync.Mutex
	status ProgressStatus
}

func NewStatusIndicator() *StatusIndicator {
	return &StatusIndicator{}
}

func (i *StatusIndicator) Show(message string, blocking bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = ProgressStatus{Shown: true, Message: message, Blocking: blocking}
}

func (i *StatusIndicator) Hide() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = ProgressStatus{}
}

func (i *StatusIndicator) Status() ProgressStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}
