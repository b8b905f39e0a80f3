package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

var ErrNotScanning = errors.New("scanner is not running")

// dispatcher hands identifiers to the active onDecode callback. Identifiers
// that arrive while no callback is registered are dropped.
type dispatcher struct {
	mu       sync.Mutex
	onDecode func(string)
	ctx      context.Context
}

func (d *dispatcher) start(ctx context.Context, onDecode func(string)) {
	d.mu.Lock()
	d.ctx, d.onDecode = ctx, onDecode
	d.mu.Unlock()
}

func (d *dispatcher) stop() {
	d.mu.Lock()
	d.ctx, d.onDecode = nil, nil
	d.mu.Unlock()
}

func (d *dispatcher) deliver(id string) bool {
	d.mu.Lock()
	fn, ctx := d.onDecode, d.ctx
	d.mu.Unlock()
	if fn == nil || ctx.Err() != nil {
		return false
	}
	fn(id)
	return true
}

// RemoteWidget receives identifiers decoded elsewhere, such as a camera page
// posting what it read back to the console.
type RemoteWidget struct {
	d dispatcher
}

func NewRemoteWidget() *RemoteWidget { return &RemoteWidget{} }

func (w *RemoteWidget) Start(ctx context.Context, onDecode func(string)) error {
	w.d.start(ctx, onDecode)
	return nil
}

func (w *RemoteWidget) Stop() error {
	w.d.stop()
	return nil
}

// Push delivers a decoded identifier. It fails when the widget is not started.
func (w *RemoteWidget) Push(ticketID string) error {
	if !w.d.deliver(ticketID) {
		return ErrNotScanning
	}
	return nil
}

// LineWidget reads one identifier per line, as keyboard-wedge barcode
// scanners type them.
type LineWidget struct {
	src  io.Reader
	once sync.Once
	d    dispatcher
	done chan struct{}
	err  error
}

func NewLineWidget(r io.Reader) *LineWidget {
	return &LineWidget{src: r, done: make(chan struct{})}
}

func (w *LineWidget) Start(ctx context.Context, onDecode func(string)) error {
	select {
	case <-w.done:
		if w.err != nil {
			return w.err
		}
		return io.EOF
	default:
	}
	w.d.start(ctx, onDecode)
	w.once.Do(func() { go w.read() })
	return nil
}

func (w *LineWidget) Stop() error {
	w.d.stop()
	return nil
}

// Done is closed once the underlying reader is exhausted.
func (w *LineWidget) Done() <-chan struct{} { return w.done }

func (w *LineWidget) read() {
	defer close(w.done)
	sc := bufio.NewScanner(w.src)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		w.d.deliver(id)
	}
	w.err = sc.Err()
}
