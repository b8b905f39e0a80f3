package service

import (
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/form"
	"eventdesk/internal/model"
	"eventdesk/internal/render"
	"net/http"
	"strconv"

	"github.com/wb-go/wbf/ginext"
)

func (s *service) Public(ctx *ginext.Context) {
	snap := s.store.Snapshot()
	events := snap.Events
	if len(events) == 0 && snap.Err != nil && s.fallback && s.legacy != nil {
		fallback, err := s.legacy.ModelEvents(ctx.Request.Context())
		if err != nil {
			s.log.Warn().Err(err).Msg("legacy events fallback failed")
		} else {
			events = fallback
		}
	}

	page := render.PublicPage{
		Cards:     render.PublicEventCards(events, s.store.MyRegistrations(), s.now()),
		Profile:   s.store.Profile(),
		Mine:      s.store.MyRegistrations(),
		CSRFField: csrfField(ctx),
	}
	if v := s.reg.View(); v.State == form.Closed {
		page.Notice = v.Success
	}
	s.render(ctx, http.StatusOK, render.PublicTemplate, page)
}

func (s *service) RegisterForm(ctx *ginext.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := s.reg.Open(id); err != nil {
		s.registrationOpenError(ctx, err)
		return
	}
	s.renderRegistration(ctx, http.StatusOK)
}

func (s *service) Register(ctx *ginext.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req dto.RegistrationForm
	if err := ctx.ShouldBind(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid form data")
		return
	}

	if v := s.reg.View(); v.State == form.Closed || v.Mode != form.Creating || v.EventID != id {
		if err := s.reg.Open(id); err != nil {
			s.registrationOpenError(ctx, err)
			return
		}
	}

	s.submitRegistration(ctx, req)
}

func (s *service) submitRegistration(ctx *ginext.Context, req dto.RegistrationForm) {
	if err := s.reg.Submit(ctx.Request.Context(), req); err != nil {
		if errors.Is(err, form.ErrBusy) {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "A registration is already being submitted")
			return
		}
		s.renderRegistration(ctx, http.StatusBadRequest)
		return
	}
	seeOther(ctx, "/")
}

func (s *service) CloseRegistration(ctx *ginext.Context) {
	if err := s.reg.Close(); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "A registration is already being submitted")
		return
	}
	seeOther(ctx, "/")
}

// EditRegistration opens one of the signed-in student's own registrations.
func (s *service) EditRegistration(ctx *ginext.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := s.reg.Edit(id); err != nil {
		s.registrationOpenError(ctx, err)
		return
	}
	s.renderRegistration(ctx, http.StatusOK)
}

func (s *service) UpdateRegistration(ctx *ginext.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req dto.RegistrationForm
	if err := ctx.ShouldBind(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid form data")
		return
	}
	if v := s.reg.View(); v.State == form.Closed || v.Mode != form.Editing || v.RegID != id {
		if err := s.reg.Edit(id); err != nil {
			s.registrationOpenError(ctx, err)
			return
		}
	}
	s.submitRegistration(ctx, req)
}

func (s *service) Ticket(ctx *ginext.Context) {
	id := ctx.Param("ticket")
	reg, ok := findTicket(s.store.MyRegistrations(), id)
	if !ok {
		dto.BadResponseError(ctx, dto.TicketInvalid, "This ticket ID ("+id+") is not found in the system.")
		return
	}
	ticket, err := render.TicketCard(reg)
	if err != nil {
		s.log.Error().Err(err).Str("ticket_id", id).Msg("failed to build ticket")
		dto.InternalServerError(ctx)
		return
	}
	s.render(ctx, http.StatusOK, render.TicketTemplate, ticket)
}

func (s *service) renderRegistration(ctx *ginext.Context, status int) {
	v := s.reg.View()
	action := "/register/" + strconv.Itoa(v.EventID)
	if v.Mode == form.Editing {
		action = "/registrations/" + strconv.Itoa(v.RegID)
	}
	s.render(ctx, status, render.RegistrationModalTemplate, render.RegistrationModal{
		EventID:   v.EventID,
		EventName: v.EventName,
		Action:    action,
		Values:    v.Values,
		Error:     v.Error,
		Success:   v.Success,
		CSRFField: csrfField(ctx),
	})
}

func (s *service) registrationOpenError(ctx *ginext.Context, err error) {
	switch {
	case errors.Is(err, form.ErrEventNotCached):
		dto.EventNotFoundError(ctx)
	case errors.Is(err, form.ErrNotMine):
		dto.RegistrationNotFoundError(ctx)
	default:
		dto.BadResponseError(ctx, dto.FieldIncorrect, "A registration is already being submitted")
	}
}

func findTicket(regs []model.Registration, id string) (model.Registration, bool) {
	if id == "" {
		return model.Registration{}, false
	}
	for _, r := range regs {
		if r.TicketID == id {
			return r, true
		}
	}
	return model.Registration{}, false
}
