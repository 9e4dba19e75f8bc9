package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/render"
)

type staticRenderer struct {
	err error
}

func (staticRenderer) Name() string        { return "static" }
func (staticRenderer) ContentType() string { return "text/html" }
func (s staticRenderer) Render(_ context.Context, data model.SignatureData, _ render.RenderOptions) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("<table>" + data.Name + "</table>"), nil
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) fire(idx int) {
	c.mu.Lock()
	t := c.timers[idx]
	c.mu.Unlock()
	t.fn()
}

func newTestExporter(t *testing.T, clip Clipboard, extra ...Option) (*Exporter, *Recorder, *fakeClock) {
	t.Helper()
	recorder := &Recorder{}
	clock := &fakeClock{}
	options := append([]Option{WithNotifier(recorder), WithAfterFunc(clock.AfterFunc)}, extra...)
	exporter, err := New(staticRenderer{}, clip, options...)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	return exporter, recorder, clock
}

func TestCopy_SuccessSetsCopiedAndNotifies(t *testing.T) {
	clip := &MemoryClipboard{}
	exporter, recorder, clock := newTestExporter(t, clip)

	if err := exporter.Copy(context.Background(), model.Default()); err != nil {
		t.Fatalf("copy: %v", err)
	}

	if !exporter.Copied() {
		t.Fatalf("expected copied state immediately after success")
	}
	if clip.Text() != "<table>John Smith</table>" {
		t.Fatalf("unexpected clipboard text %q", clip.Text())
	}
	if diff := cmp.Diff([]Notification{CopiedNotification}, recorder.Notifications()); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if len(clock.timers) != 1 || clock.timers[0].delay != 2*time.Second {
		t.Fatalf("expected a single 2s reset, got %+v", clock.timers)
	}

	clock.fire(0)
	if exporter.Copied() {
		t.Fatalf("expected copied state to clear after the delay")
	}
}

func TestCopy_SecondSuccessRestartsDelay(t *testing.T) {
	exporter, _, clock := newTestExporter(t, &MemoryClipboard{})

	if err := exporter.Copy(context.Background(), model.Default()); err != nil {
		t.Fatalf("first copy: %v", err)
	}
	if err := exporter.Copy(context.Background(), model.Default()); err != nil {
		t.Fatalf("second copy: %v", err)
	}

	if !clock.timers[0].stopped {
		t.Fatalf("expected first reset to be cancelled")
	}

	clock.fire(0)
	if !exporter.Copied() {
		t.Fatalf("stale reset must not clear the copied state")
	}
	clock.fire(1)
	if exporter.Copied() {
		t.Fatalf("expected latest reset to clear the copied state")
	}
}

func TestCopy_FailureNotifiesAndLeavesStateOff(t *testing.T) {
	clip := &MemoryClipboard{}
	clip.Fail(errors.New("permission denied"))
	exporter, recorder, clock := newTestExporter(t, clip)

	err := exporter.Copy(context.Background(), model.Default())
	if !errors.Is(err, ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected cause in error, got %v", err)
	}
	if exporter.Copied() {
		t.Fatalf("failed copy must not set copied state")
	}
	if len(clock.timers) != 0 {
		t.Fatalf("failed copy must not schedule a reset")
	}

	last, ok := recorder.Last()
	if !ok || last != FailedNotification {
		t.Fatalf("expected failure notification, got %+v", last)
	}
	if last.Variant != VariantDestructive {
		t.Fatalf("expected destructive variant")
	}
	if len(recorder.Notifications()) != 1 {
		t.Fatalf("expected no retry, got %d notifications", len(recorder.Notifications()))
	}
}

func TestCopy_RenderFailureCountsAsCopyFailure(t *testing.T) {
	recorder := &Recorder{}
	exporter, err := New(staticRenderer{err: errors.New("boom")}, &MemoryClipboard{}, WithNotifier(recorder))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}

	if err := exporter.Copy(context.Background(), model.Default()); !errors.Is(err, ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed, got %v", err)
	}
	if last, _ := recorder.Last(); last.Title != "Copy Failed" {
		t.Fatalf("unexpected notification %+v", last)
	}
}

func TestCopy_StateListenerSeesTransitions(t *testing.T) {
	var states []bool
	exporter, _, clock := newTestExporter(t, &MemoryClipboard{}, WithStateListener(func(copied bool) {
		states = append(states, copied)
	}))

	_ = exporter.Copy(context.Background(), model.Default())
	_ = exporter.Copy(context.Background(), model.Default())
	clock.fire(1)

	if diff := cmp.Diff([]bool{true, false}, states); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestCopy_RealTimerResets(t *testing.T) {
	exporter, err := New(staticRenderer{}, &MemoryClipboard{}, WithResetDelay(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	defer exporter.Close()

	if err := exporter.Copy(context.Background(), model.Default()); err != nil {
		t.Fatalf("copy: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for exporter.Copied() {
		if time.Now().After(deadline) {
			t.Fatalf("copied state never reset")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCopy_CancelledContext(t *testing.T) {
	clip := &MemoryClipboard{}
	exporter, recorder, _ := newTestExporter(t, clip)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := exporter.Copy(ctx, model.Default()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if clip.Text() != "" || len(recorder.Notifications()) != 0 {
		t.Fatalf("cancelled copy must not touch the clipboard or notify")
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(nil, &MemoryClipboard{}); err == nil {
		t.Fatalf("expected renderer error")
	}
	if _, err := New(staticRenderer{}, nil); err == nil {
		t.Fatalf("expected clipboard error")
	}
}

func TestNotifiers(t *testing.T) {
	var buf bytes.Buffer
	WriterNotifier{W: &buf}.Notify(CopiedNotification)
	if buf.String() != "Signature Copied! The HTML signature has been copied to your clipboard.\n" {
		t.Fatalf("unexpected writer output %q", buf.String())
	}

	core, logs := observer.New(zap.InfoLevel)
	notifier := LogNotifier{Logger: zap.New(core)}
	notifier.Notify(CopiedNotification)
	notifier.Notify(FailedNotification)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Message != "Signature Copied!" || entries[1].Level != zap.WarnLevel {
		t.Fatalf("unexpected log entries %+v", entries)
	}
}
