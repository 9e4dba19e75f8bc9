// Package export copies rendered signatures to a clipboard and tracks the
// short-lived "copied" confirmation state shown by the copy control.
package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/render"
)

// ResetDelay is how long the copied state lasts after a successful copy.
const ResetDelay = 2 * time.Second

// ErrCopyFailed wraps every failed copy attempt.
var ErrCopyFailed = errors.New("export: copy failed")

// Timer is the part of *time.Timer the exporter needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc is the default.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithNotifier sets where copy notifications go.
func WithNotifier(n Notifier) Option {
	return func(e *Exporter) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithRenderOptions sets the options passed to the renderer on every copy.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(e *Exporter) {
		e.renderOptions = opts
	}
}

// WithResetDelay overrides ResetDelay.
func WithResetDelay(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithAfterFunc replaces the timer scheduler, letting tests fire resets by
// hand.
func WithAfterFunc(fn AfterFunc) Option {
	return func(e *Exporter) {
		if fn != nil {
			e.afterFunc = fn
		}
	}
}

// WithStateListener registers fn to run whenever the copied state flips.
// fn may run on the timer goroutine.
func WithStateListener(fn func(copied bool)) Option {
	return func(e *Exporter) {
		e.listener = fn
	}
}

// Exporter renders a record, writes it to a clipboard and reports the result.
// Copy and Copied are safe for concurrent use.
type Exporter struct {
	renderer      render.Renderer
	clipboard     Clipboard
	notifier      Notifier
	renderOptions render.RenderOptions
	delay         time.Duration
	afterFunc     AfterFunc
	listener      func(copied bool)

	mu     sync.Mutex
	copied bool
	gen    uint64
	timer  Timer
}

// New builds an Exporter. renderer produces the copied markup.
func New(renderer render.Renderer, clipboard Clipboard, options ...Option) (*Exporter, error) {
	if renderer == nil {
		return nil, errors.New("export: renderer is required")
	}
	if clipboard == nil {
		return nil, errors.New("export: clipboard is required")
	}

	e := &Exporter{
		renderer:  renderer,
		clipboard: clipboard,
		notifier:  NotifierFunc(func(Notification) {}),
		delay:     ResetDelay,
		afterFunc: systemAfterFunc,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// Copy renders data and writes the markup to the clipboard. On success the
// copied state turns on and is scheduled to turn off after the reset delay; a
// later success restarts that delay. On failure the state is left as it was,
// a destructive notification is sent and the error wraps ErrCopyFailed. There
// is no retry.
func (e *Exporter) Copy(ctx context.Context, data model.SignatureData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	markup, err := e.renderer.Render(ctx, data, e.renderOptions)
	if err != nil {
		e.notifier.Notify(FailedNotification)
		return fmt.Errorf("%w: render: %v", ErrCopyFailed, err)
	}

	if err := e.clipboard.WriteText(string(markup)); err != nil {
		e.notifier.Notify(FailedNotification)
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	e.markCopied()
	e.notifier.Notify(CopiedNotification)
	return nil
}

// Copied reports whether a copy succeeded within the reset delay.
func (e *Exporter) Copied() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copied
}

// Close cancels a pending reset and clears the copied state.
func (e *Exporter) Close() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	changed := e.copied
	e.copied = false
	e.mu.Unlock()

	if changed {
		e.emit(false)
	}
}

func (e *Exporter) markCopied() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	changed := !e.copied
	e.copied = true
	e.timer = e.afterFunc(e.delay, func() { e.reset(gen) })
	e.mu.Unlock()

	if changed {
		e.emit(true)
	}
}

// reset clears the copied state unless a later copy rescheduled it.
func (e *Exporter) reset(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || !e.copied {
		e.mu.Unlock()
		return
	}
	e.copied = false
	e.timer = nil
	e.mu.Unlock()

	e.emit(false)
}

func (e *Exporter) emit(copied bool) {
	if e.listener != nil {
		e.listener(copied)
	}
}
