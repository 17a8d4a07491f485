package dropin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropin-checkout-api/models"
)

type recordingRunner struct {
	hooks []Hook
}

func (r *recordingRunner) Run(hook Hook) {
	r.hooks = append(r.hooks, hook)
}

type recordingSink struct {
	nonce      string
	deviceData string
	calls      int
	err        error
}

func (s *recordingSink) SaveResult(nonce, deviceData string) error {
	s.calls++
	s.nonce = nonce
	s.deviceData = deviceData
	return s.err
}

type countingIndicator struct {
	shows   int
	hides   int
	message string
}

func (i *countingIndicator) Show(message string, blocking bool) {
	i.shows++
	i.message = message
}

func (i *countingIndicator) Hide() {
	i.hides++
}

func newTestBridge(hooks models.ActionHooks) (*Bridge, *recordingRunner, *recordingSink, *countingIndicator) {
	runner := &recordingRunner{}
	sink := &recordingSink{}
	indicator := &countingIndicator{}
	return NewBridge(hooks, runner, sink, indicator), runner, sink, indicator
}

func allHooks() models.ActionHooks {
	return models.ActionHooks{
		OnCreate:       "https://host.example/create",
		OnDestroyStart: "https://host.example/destroy-start",
		OnDestroyEnd:   "https://host.example/destroy-end",
		OnError:        "https://host.example/error",
		OnSubmit:       "https://host.example/submit",
		ProgressMode:   models.ProgressBlocking,
	}
}

func TestBridgeHappyPath(t *testing.T) {
	b, runner, sink, _ := newTestBridge(allHooks())

	assert.Equal(t, StateIdle, b.State())

	b.HandleCreated()
	assert.Equal(t, StateCreated, b.State())
	assert.Equal(t, []Hook{HookCreate}, runner.hooks)

	b.BeginSubmit()
	assert.Equal(t, StateSubmitting, b.State())

	require.NoError(t, b.HandlePaymentMethod("nonce-abc", "device-xyz"))
	assert.Equal(t, StateSubmitSucceeded, b.State())
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, "nonce-abc", sink.nonce)
	assert.Equal(t, "device-xyz", sink.deviceData)
	assert.Equal(t, []Hook{HookCreate, HookSubmit}, runner.hooks)
}

func TestBridgeUnconfiguredHooksNotDispatched(t *testing.T) {
	b, runner, _, _ := newTestBridge(models.ActionHooks{OnError: "https://host.example/error"})

	b.HandleCreated()
	b.HandleError("tokenization failed")

	assert.Equal(t, []Hook{HookError}, runner.hooks)
}

func TestBridgeSubmitBlockedWhileDestroying(t *testing.T) {
	b, _, _, indicator := newTestBridge(allHooks())

	b.HandleDestroyStart()
	b.BeginSubmit()

	assert.Equal(t, StateDestroying, b.State())
	assert.Equal(t, 0, indicator.shows)
}

func TestBridgeProgressIdempotence(t *testing.T) {
	b, _, _, indicator := newTestBridge(allHooks())

	b.BeginSubmit()
	b.BeginSubmit()
	b.BeginSubmit()
	assert.Equal(t, 1, indicator.shows)

	b.HandleError("declined")
	b.HandleError("declined again")
	assert.Equal(t, 1, indicator.hides)
}

func TestBridgeProgressModes(t *testing.T) {
	t.Run("none never shows", func(t *testing.T) {
		hooks := allHooks()
		hooks.ProgressMode = models.ProgressNone
		b, _, _, indicator := newTestBridge(hooks)

		b.BeginSubmit()
		assert.Equal(t, 0, indicator.shows)
	})

	t.Run("message passed through", func(t *testing.T) {
		hooks := allHooks()
		hooks.ProgressMessage = "Processing payment..."
		b, _, _, indicator := newTestBridge(hooks)

		b.BeginSubmit()
		assert.Equal(t, "Processing payment...", indicator.message)
	})
}

func TestBridgeExecutingSuppressesSubmitHook(t *testing.T) {
	b, runner, sink, _ := newTestBridge(allHooks())

	b.BeginSubmit()
	b.SetExecuting(true)

	require.NoError(t, b.HandlePaymentMethod("nonce-1", ""))

	// Result persisted, hook suppressed while a prior action still runs.
	assert.Equal(t, 1, sink.calls)
	assert.NotContains(t, runner.hooks, HookSubmit)
}

func TestBridgeExecutingEdges(t *testing.T) {
	b, _, _, indicator := newTestBridge(allHooks())

	b.SetExecuting(true)
	b.SetExecuting(true)
	assert.Equal(t, 1, indicator.shows)

	b.SetExecuting(false)
	b.SetExecuting(false)
	assert.Equal(t, 1, indicator.hides)
}

func TestBridgeSettlesToIdleOnExecutingFall(t *testing.T) {
	b, _, _, indicator := newTestBridge(allHooks())

	b.BeginSubmit()
	require.NoError(t, b.HandlePaymentMethod("nonce-2", ""))
	assert.Equal(t, StateSubmitSucceeded, b.State())

	b.SetExecuting(true)
	b.SetExecuting(false)
	assert.Equal(t, StateIdle, b.State())
	assert.Equal(t, indicator.shows, indicator.hides)
}

func TestBridgeSinkFailurePropagates(t *testing.T) {
	runner := &recordingRunner{}
	sink := &recordingSink{err: assert.AnError}
	b := NewBridge(allHooks(), runner, sink, &countingIndicator{})

	b.BeginSubmit()
	err := b.HandlePaymentMethod("nonce-3", "")
	assert.ErrorIs(t, err, assert.AnError)
	// The hook must not fire when persistence failed.
	assert.NotContains(t, runner.hooks, HookSubmit)
}

func TestBridgeDestroyClearsProgress(t *testing.T) {
	b, runner, _, indicator := newTestBridge(allHooks())

	b.BeginSubmit()
	b.HandleDestroyStart()
	b.HandleDestroyEnd()

	assert.Equal(t, StateDestroyed, b.State())
	assert.Equal(t, 1, indicator.hides)
	assert.Contains(t, runner.hooks, HookDestroyStart)
	assert.Contains(t, runner.hooks, HookDestroyEnd)
}

func TestRegistry(t *testing.T) {
	newRunner := func(session *models.CheckoutSession) ActionRunner {
		return &recordingRunner{}
	}
	newSink := func(sessionID string) ResultSink {
		return &recordingSink{}
	}
	r := NewRegistry(newRunner, newSink)

	session := &models.CheckoutSession{ID: "s-1", Hooks: allHooks()}

	first := r.For(session)
	second := r.For(session)
	assert.Same(t, first, second)

	got, ok := r.Get("s-1")
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = r.Get("s-2")
	assert.False(t, ok)

	r.Drop("s-1")
	_, ok = r.Get("s-1")
	assert.False(t, ok)
}

func TestStatusIndicator(t *testing.T) {
	i := NewStatusIndicator()
	assert.False(t, i.Status().Shown)

	i.Show("Working...", true)
	status := i.Status()
	assert.True(t, status.Shown)
	assert.Equal(t, "Working...", status.Message)
	assert.True(t, status.Blocking)

	i.Hide()
	assert.False(t, i.Status().Shown)
}
