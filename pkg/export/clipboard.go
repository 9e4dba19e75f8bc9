package export

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when the host has no clipboard
// utility (xclip, xsel, wl-copy, pbcopy or the Windows API).
var ErrClipboardUnsupported = errors.New("export: system clipboard unavailable")

// Clipboard receives exported markup.
type Clipboard interface {
	WriteText(text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(text string) error

func (f ClipboardFunc) WriteText(text string) error {
	return f(text)
}

// SystemClipboard writes to the host clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// MemoryClipboard keeps the last written text. Useful for headless servers
// and tests.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

// Fail makes subsequent writes return err. A nil err restores writes.
func (m *MemoryClipboard) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

// Text returns the last successfully written text.
func (m *MemoryClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
