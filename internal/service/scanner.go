package service

import (
	"eventdesk/internal/dto"
	"eventdesk/internal/render"
	"eventdesk/internal/scanner"
	"eventdesk/pkg/validator"
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"
)

func (s *service) Scanner(ctx *ginext.Context) {
	v := s.scan.View()
	s.render(ctx, http.StatusOK, render.ScannerTemplate, render.ScannerPage{
		Scanning:  v.State == scanner.Scanning,
		Panel:     v.Result,
		CSRFField: csrfField(ctx),
	})
}

func (s *service) ScannerStart(ctx *ginext.Context) {
	if err := s.scan.Start(s.base); err != nil {
		s.log.Error().Err(err).Msg("failed to start scanner")
		dto.InternalServerError(ctx)
		return
	}
	seeOther(ctx, "/adm/scanner")
}

func (s *service) ScannerStop(ctx *ginext.Context) {
	if err := s.scan.Stop(); err != nil {
		s.log.Warn().Err(err).Msg("failed to stop scanner")
	}
	seeOther(ctx, "/adm/scanner")
}

// ScannerDecode takes an identifier read by a camera page, or typed in by
// hand, and answers with the scan result.
func (s *service) ScannerDecode(ctx *ginext.Context) {
	var req dto.ScanRequest
	if err := ctx.ShouldBind(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid scan request")
		return
	}
	req.TicketID = strings.TrimSpace(req.TicketID)
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.FieldBadFormatError(ctx, "ticket_id")
		return
	}

	var panel render.ScanPanel
	if s.remote != nil && s.remote.Push(req.TicketID) == nil {
		if v := s.scan.View(); v.Result != nil {
			panel = *v.Result
		}
	} else {
		panel = s.scan.ManualEntry(req.TicketID)
	}

	if ctx.ContentType() == "application/json" {
		dto.SuccessResponse(ctx, panel)
		return
	}
	seeOther(ctx, "/adm/scanner")
}

func (s *service) ScannerDismiss(ctx *ginext.Context) {
	s.scan.Dismiss()
	seeOther(ctx, "/adm/scanner")
}
