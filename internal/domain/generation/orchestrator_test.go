package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"soul-portrait/internal/ports/assistant"
)

// -------------------------
// Fake runner (scripted)
// -------------------------

type fakeRunner struct {
	statuses  []assistant.RunStatus
	lastError string

	message assistant.Message
	msgErr  error

	submitErr error
	startErr  error

	submitCalls int
	startCalls  int
	pollCalls   int
}

func (f *fakeRunner) SubmitThread(ctx context.Context, message string) (string, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "thread-1", nil
}

func (f *fakeRunner) StartRun(ctx context.Context, threadID string) (string, error) {
	f.startCalls++
	if f.startErr != nil {
		return "", f.startErr
	}
	return fmt.Sprintf("run-%d", f.startCalls), nil
}

func (f *fakeRunner) PollRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	i := f.pollCalls
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.pollCalls++
	return assistant.Run{ID: runID, Status: f.statuses[i], LastError: f.lastError}, nil
}

func (f *fakeRunner) LatestMessage(ctx context.Context, threadID string) (assistant.Message, error) {
	if f.msgErr != nil {
		return assistant.Message{}, f.msgErr
	}
	return f.message, nil
}

func newTestOrchestrator(r *fakeRunner) (*Orchestrator, *[]time.Duration) {
	o := NewOrchestrator(r, Config{}, nil)

	sleeps := []time.Duration{}
	o.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	// reloj quieto: el deadline de MaxWait nunca se alcanza
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return t0 }

	return o, &sleeps
}

// -------------------------
// Tests
// -------------------------

func TestOrchestrator_HappyPath(t *testing.T) {
	r := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusQueued, assistant.StatusInProgress, assistant.StatusCompleted},
		message:  assistant.Message{Kind: assistant.MessageKindText, Text: `{"ok":true}`},
	}
	o, sleeps := newTestOrchestrator(r)

	out, err := o.Run(context.Background(), "msg")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("unexpected payload: %s", out)
	}
	if r.submitCalls != 1 || r.startCalls != 1 {
		t.Fatalf("expected 1 submit + 1 run, got %d/%d", r.submitCalls, r.startCalls)
	}
	// dos estados no terminales => dos esperas de poll
	if len(*sleeps) != 2 {
		t.Fatalf("expected 2 poll sleeps, got %d", len(*sleeps))
	}
	for _, d := range *sleeps {
		if d != time.Second {
			t.Fatalf("expected 1s poll interval, got %v", d)
		}
	}
}

func TestOrchestrator_RecoversAfterOneRetry(t *testing.T) {
	// secuencia del enunciado: in_progress, failed, in_progress, completed
	r := &fakeRunner{
		statuses: []assistant.RunStatus{
			assistant.StatusInProgress,
			assistant.StatusFailed,
			assistant.StatusInProgress,
			assistant.StatusCompleted,
		},
		message: assistant.Message{Kind: assistant.MessageKindText, Text: `{}`},
	}
	o, sleeps := newTestOrchestrator(r)

	if _, err := o.Run(context.Background(), "msg"); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	// run inicial + exactamente un retry
	if r.startCalls != 2 {
		t.Fatalf("expected 2 runs (1 retry), got %d", r.startCalls)
	}

	// el retry duerme el backoff de 2s, el resto son polls de 1s
	backoffs := 0
	for _, d := range *sleeps {
		if d == 2*time.Second {
			backoffs++
		}
	}
	if backoffs != 1 {
		t.Fatalf("expected exactly 1 backoff sleep, got %d", backoffs)
	}
}

func TestOrchestrator_ExhaustsRetries(t *testing.T) {
	r := &fakeRunner{
		statuses:  []assistant.RunStatus{assistant.StatusFailed},
		lastError: "server_error something broke",
	}
	o, _ := newTestOrchestrator(r)

	_, err := o.Run(context.Background(), "msg")
	if err == nil {
		t.Fatalf("expected error")
	}
	if KindOf(Classify(err)) != KindUnexpected {
		t.Fatalf("expected unexpected, got %s", KindOf(Classify(err)))
	}
	// run inicial + 3 retries, y ni uno más
	if r.startCalls != 4 {
		t.Fatalf("expected 4 runs total, got %d", r.startCalls)
	}
}

func TestOrchestrator_ExhaustedWithQuotaMarker(t *testing.T) {
	r := &fakeRunner{
		statuses:  []assistant.RunStatus{assistant.StatusFailed},
		lastError: "insufficient_quota You exceeded your current quota",
	}
	o, _ := newTestOrchestrator(r)

	_, err := o.Run(context.Background(), "msg")
	if KindOf(Classify(err)) != KindInsufficientFunds {
		t.Fatalf("expected insufficient_funds, got %s", KindOf(Classify(err)))
	}
}

func TestOrchestrator_Expired_ImmediateRateLimit(t *testing.T) {
	r := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusInProgress, assistant.StatusExpired},
	}
	o, _ := newTestOrchestrator(r)

	_, err := o.Run(context.Background(), "msg")
	if KindOf(err) != KindRateLimit {
		t.Fatalf("expected rate_limit, got %s (err=%v)", KindOf(err), err)
	}
	if r.startCalls != 1 {
		t.Fatalf("expired must not retry, got %d runs", r.startCalls)
	}
}

func TestOrchestrator_NoMessage_IsUnexpected(t *testing.T) {
	r := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusCompleted},
		msgErr:   assistant.ErrNoMessages,
	}
	o, _ := newTestOrchestrator(r)

	_, err := o.Run(context.Background(), "msg")
	if KindOf(Classify(err)) != KindUnexpected {
		t.Fatalf("expected unexpected for missing message, got %s", KindOf(Classify(err)))
	}
}

func TestOrchestrator_NonTextContent_IsUnexpected(t *testing.T) {
	r := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusCompleted},
		message:  assistant.Message{Kind: "image_file"},
	}
	o, _ := newTestOrchestrator(r)

	_, err := o.Run(context.Background(), "msg")
	if KindOf(Classify(err)) != KindUnexpected {
		t.Fatalf("expected unexpected for non-text content, got %s", KindOf(Classify(err)))
	}
}

func TestOrchestrator_TimesOutOnMaxWait(t *testing.T) {
	r := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusInProgress},
	}
	o, _ := newTestOrchestrator(r)

	// reloj que avanza 1 minuto por consulta: supera MaxWait=5m
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time {
		t0 = t0.Add(time.Minute)
		return t0
	}

	_, err := o.Run(context.Background(), "msg")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if KindOf(err) != KindUnexpected {
		t.Fatalf("expected unexpected on timeout, got %s", KindOf(err))
	}
}

func TestOrchestrator_ContextCancelled(t *testing.T) {
	r := &fakeRunner{
		statuses: []assistant.RunStatus{assistant.StatusInProgress},
	}
	o, _ := newTestOrchestrator(r)

	ctx, cancel := context.WithCancel(context.Background())
	o.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := o.Run(ctx, "msg")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
