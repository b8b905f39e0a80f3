package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/store"
	"fmt"

	"github.com/rs/zerolog"
)

type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Refresher interface {
	Refresh(ctx context.Context) error
	RefreshMine(ctx context.Context) error
}

// Reader refreshes the store whenever another console announces a change.
type Reader struct {
	src    Consumer
	store  Refresher
	origin string
	log    *zerolog.Logger
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(src Consumer, st Refresher, origin string, log *zerolog.Logger) *Reader {
	return &Reader{
		src:    src,
		store:  st,
		origin: origin,
		log:    log,
		done:   make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("notice reader started")

	go func() {
		defer close(r.done)

		if err := r.src.Consume(func(body []byte) error { return r.handle(cctx, body) }); err != nil {
			r.log.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("notice reader stopped")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Reader) handle(ctx context.Context, body []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var notice dto.Notice
	if err := json.Unmarshal(body, &notice); err != nil {
		return fmt.Errorf("decode notice %q: %w", string(body), err)
	}
	if notice.Origin != "" && notice.Origin == r.origin {
		return nil
	}

	r.log.Info().
		Str("collection", notice.Collection).
		Int("event_id", notice.EventID).
		Msg("change notice received")

	if err := r.store.Refresh(ctx); err != nil && !errors.Is(err, store.ErrStaleRefresh) {
		return fmt.Errorf("refresh after notice: %w", err)
	}
	if notice.Collection == dto.CollectionRegistrations {
		if err := r.store.RefreshMine(ctx); err != nil && !errors.Is(err, store.ErrStaleRefresh) {
			return fmt.Errorf("refresh own registrations after notice: %w", err)
		}
	}
	return nil
}
