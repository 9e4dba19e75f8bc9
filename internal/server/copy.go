package server

import (
	"sync"

	"github.com/goliatone/go-siggen/pkg/export"
)

type exporterFactory func(listener func(copied bool)) (*export.Exporter, error)

// copyTracker keeps one exporter per session while its copied state is on.
// Entries drop out when the state resets and come back on the next copy.
type copyTracker struct {
	mu        sync.Mutex
	exporters map[string]*export.Exporter
	factory   exporterFactory
}

func newCopyTracker(factory exporterFactory) *copyTracker {
	return &copyTracker{
		exporters: make(map[string]*export.Exporter),
		factory:   factory,
	}
}

func (t *copyTracker) exporter(id string) (*export.Exporter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if exp, ok := t.exporters[id]; ok {
		return exp, nil
	}

	var exp *export.Exporter
	exp, err := t.factory(func(copied bool) {
		if copied {
			t.track(id, exp)
			return
		}
		t.release(id, exp)
	})
	if err != nil {
		return nil, err
	}
	t.exporters[id] = exp
	return exp, nil
}

// track puts exp back when a copy lands after its entry was released by a
// reset. An entry that is itself in the copied state is left alone.
func (t *copyTracker) track(id string, exp *export.Exporter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.exporters[id]; ok && (cur == exp || cur.Copied()) {
		return
	}
	t.exporters[id] = exp
}

func (t *copyTracker) release(id string, exp *export.Exporter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.exporters[id] == exp {
		delete(t.exporters, id)
	}
}

// dropIdle forgets the session's exporter unless its copied state is on.
func (t *copyTracker) dropIdle(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if exp, ok := t.exporters[id]; ok && !exp.Copied() {
		delete(t.exporters, id)
	}
}

func (t *copyTracker) copied(id string) bool {
	t.mu.Lock()
	exp, ok := t.exporters[id]
	t.mu.Unlock()
	return ok && exp.Copied()
}

func (t *copyTracker) closeAll() {
	t.mu.Lock()
	exporters := make([]*export.Exporter, 0, len(t.exporters))
	for _, exp := range t.exporters {
		exporters = append(exporters, exp)
	}
	t.mu.Unlock()

	for _, exp := range exporters {
		exp.Close()
	}
}
