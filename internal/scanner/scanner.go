package scanner

import (
	"context"
	"eventdesk/internal/model"
	"eventdesk/internal/monitoring"
	"eventdesk/internal/render"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Widget is a source of decoded ticket identifiers, a camera or otherwise.
// onDecode may call Stop on the same widget.
type Widget interface {
	Start(ctx context.Context, onDecode func(ticketID string)) error
	Stop() error
}

type Lookup interface {
	FindTicket(ticketID string) (model.Registration, bool)
}

type State int

const (
	Idle State = iota
	Scanning
	ResultShown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case ResultShown:
		return "result_shown"
	}
	return "unknown"
}

type View struct {
	State  State
	Result *render.ScanPanel
}

// Adapter owns the widget handle. Start while scanning and Stop while idle
// do nothing.
type Adapter struct {
	widget Widget
	lookup Lookup
	log    *zerolog.Logger

	mu      sync.Mutex
	state   State
	running bool
	cancel  context.CancelFunc
	result  *render.ScanPanel
}

func New(widget Widget, lookup Lookup, log *zerolog.Logger) *Adapter {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Adapter{widget: widget, lookup: lookup, log: log}
}

func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return nil
	}
	wctx, cancel := context.WithCancel(ctx)
	a.running = true
	a.cancel = cancel
	a.state = Scanning
	a.result = nil
	a.mu.Unlock()

	if err := a.widget.Start(wctx, a.decoded); err != nil {
		cancel()
		a.mu.Lock()
		a.running = false
		a.cancel = nil
		a.state = Idle
		a.mu.Unlock()
		return fmt.Errorf("start scanner: %w", err)
	}
	a.log.Info().Msg("scanner started")
	return nil
}

func (a *Adapter) Stop() error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return nil
	}
	a.release()
	if a.state == Scanning {
		a.state = Idle
	}
	a.mu.Unlock()
	return a.stopWidget()
}

// ManualEntry checks a typed ticket identifier the same way a decoded one is.
func (a *Adapter) ManualEntry(ticketID string) render.ScanPanel {
	return a.handle(ticketID)
}

// Dismiss clears a shown result.
func (a *Adapter) Dismiss() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == ResultShown {
		a.state = Idle
		a.result = nil
	}
}

func (a *Adapter) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	v := View{State: a.state}
	if a.result != nil {
		r := *a.result
		v.Result = &r
	}
	return v
}

func (a *Adapter) decoded(ticketID string) {
	a.handle(ticketID)
}

func (a *Adapter) handle(ticketID string) render.ScanPanel {
	reg, found := a.lookup.FindTicket(ticketID)
	panel := render.ScanResultPanel(ticketID, reg, found)
	monitoring.TrackScan(found)

	// Result and release are published together. A Start landing during
	// stopWidget owns the state from then on.
	a.mu.Lock()
	wasRunning := a.running
	if wasRunning {
		a.release()
	}
	a.state = ResultShown
	a.result = &panel
	a.mu.Unlock()

	if wasRunning {
		if err := a.stopWidget(); err != nil {
			a.log.Warn().Err(err).Msg("scanner did not stop after decode")
		}
	}
	a.log.Info().Str("ticket_id", ticketID).Bool("valid", found).Msg("ticket checked")
	return panel
}

// release drops the widget handle. Callers hold mu.
func (a *Adapter) release() {
	a.running = false
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Adapter) stopWidget() error {
	if err := a.widget.Stop(); err != nil {
		return fmt.Errorf("stop scanner: %w", err)
	}
	return nil
}
