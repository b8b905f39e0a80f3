package service

import (
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/form"
	"eventdesk/internal/gateway"
	"eventdesk/internal/render"
	"eventdesk/internal/store"
	"net/http"
	"strconv"

	"github.com/wb-go/wbf/ginext"
)

const partialLoadError = "Some data could not be loaded from the events server. Try refreshing."

func (s *service) Admin(ctx *ginext.Context) {
	snap := s.store.Snapshot()
	page := render.AdminDashboard(snap.Events, snap.Registrations, s.recent)
	page.RefreshedAt = snap.RefreshedAt
	page.CSRFField = csrfField(ctx)
	if snap.Err != nil {
		page.Error = partialLoadError
	}
	s.render(ctx, http.StatusOK, render.AdminTemplate, page)
}

func (s *service) NewEvent(ctx *ginext.Context) {
	if err := s.events.OpenCreate(); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "An event is already being saved")
		return
	}
	s.renderEventModal(ctx, http.StatusOK)
}

func (s *service) EditEvent(ctx *ginext.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := s.events.OpenEdit(id); err != nil {
		s.eventOpenError(ctx, err)
		return
	}
	s.renderEventModal(ctx, http.StatusOK)
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	var req dto.EventPayload
	if err := ctx.ShouldBind(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid form data")
		return
	}
	if v := s.events.View(); v.State == form.Closed || v.Mode != form.Creating {
		if err := s.events.OpenCreate(); err != nil {
			s.eventOpenError(ctx, err)
			return
		}
	}
	s.submitEvent(ctx, req)
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req dto.EventPayload
	if err := ctx.ShouldBind(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid form data")
		return
	}
	if v := s.events.View(); v.State == form.Closed || v.Mode != form.Editing || v.EventID != id {
		if err := s.events.OpenEdit(id); err != nil {
			s.eventOpenError(ctx, err)
			return
		}
	}
	s.submitEvent(ctx, req)
}

func (s *service) submitEvent(ctx *ginext.Context, req dto.EventPayload) {
	if err := s.events.Submit(ctx.Request.Context(), req); err != nil {
		if errors.Is(err, form.ErrBusy) {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "An event is already being saved")
			return
		}
		s.renderEventModal(ctx, http.StatusBadRequest)
		return
	}
	seeOther(ctx, "/adm")
}

func (s *service) DeleteEvent(ctx *ginext.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	err := s.events.Delete(ctx.Request.Context(), id)
	switch {
	case err == nil:
		seeOther(ctx, "/adm")
	case errors.Is(err, form.ErrBusy):
		dto.BadResponseError(ctx, dto.FieldIncorrect, "An event is already being saved")
	case gateway.KindOf(err) == gateway.KindNotFound:
		dto.EventNotFoundError(ctx)
	default:
		msg := gateway.MessageOf(err)
		if msg == "" {
			msg = "Failed to delete event. Please try again."
		}
		dto.BadResponseError(ctx, dto.FieldIncorrect, msg)
	}
}

func (s *service) CloseEvent(ctx *ginext.Context) {
	if err := s.events.Close(); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "An event is already being saved")
		return
	}
	seeOther(ctx, "/adm")
}

func (s *service) Refresh(ctx *ginext.Context) {
	if err := s.store.Refresh(ctx.Request.Context()); err != nil && !errors.Is(err, store.ErrStaleRefresh) {
		s.log.Warn().Err(err).Msg("manual refresh failed")
	}
	seeOther(ctx, "/adm")
}

func (s *service) renderEventModal(ctx *ginext.Context, status int) {
	v := s.events.View()
	modal := render.EventModal{
		Title:     "Add New Event",
		Action:    "/adm/events",
		Values:    v.Values,
		Error:     v.Error,
		CSRFField: csrfField(ctx),
	}
	if v.Mode == form.Editing {
		modal.Title = "Edit Event"
		modal.Action = "/adm/events/" + strconv.Itoa(v.EventID)
	}
	if v.Values.Time != nil {
		modal.Time = *v.Values.Time
	}
	s.render(ctx, status, render.EventModalTemplate, modal)
}

func (s *service) eventOpenError(ctx *ginext.Context, err error) {
	if errors.Is(err, form.ErrEventNotCached) {
		dto.EventNotFoundError(ctx)
		return
	}
	dto.BadResponseError(ctx, dto.FieldIncorrect, "An event is already being saved")
}
