package service

import (
	"errors"
	"eventdesk/internal/dto"
	"eventdesk/internal/legacy"
	"eventdesk/internal/model"
	"eventdesk/pkg/validator"
	"fmt"

	"github.com/wb-go/wbf/ginext"
)

type legacyVerifyResponse struct {
	Message      string              `json:"message"`
	Registration legacy.Registration `json:"registration"`
}

func (s *service) legacyEnabled(ctx *ginext.Context) bool {
	if s.legacy == nil {
		dto.BadResponseError(ctx, dto.ServiceUnavailable, "Legacy store is not enabled")
		return false
	}
	return true
}

func (s *service) LegacyEvents(ctx *ginext.Context) {
	if !s.legacyEnabled(ctx) {
		return
	}
	events, err := s.legacy.Events(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read legacy events")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, events)
}

func (s *service) LegacyRegister(ctx *ginext.Context) {
	if !s.legacyEnabled(ctx) {
		return
	}
	var req dto.LegacyRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx.Request.Context(), req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	reg, err := s.legacy.AddRegistration(ctx.Request.Context(), req.EventID, model.Profile{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
		Course: req.Course,
		Branch: req.Branch,
	})
	if err != nil {
		s.log.Error().Err(err).Str("event_id", req.EventID).Msg("failed to add legacy registration")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, reg)
}

func (s *service) LegacyVerify(ctx *ginext.Context) {
	if !s.legacyEnabled(ctx) {
		return
	}
	var req dto.LegacyVerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx.Request.Context(), req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	reg, err := s.legacy.VerifyTicket(ctx.Request.Context(), req.TicketID, req.VerificationCode)
	if errors.Is(err, legacy.ErrNotFound) {
		dto.BadResponseError(ctx, dto.TicketInvalid, legacy.MsgInvalid)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("ticket_id", req.TicketID).Msg("legacy verification failed")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, legacyVerifyResponse{Message: legacy.MsgVerified, Registration: reg})
}
