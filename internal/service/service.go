package service

import (
	"bytes"
	"context"
	"eventdesk/internal/dto"
	"eventdesk/internal/form"
	"eventdesk/internal/legacy"
	"eventdesk/internal/render"
	"eventdesk/internal/scanner"
	"eventdesk/internal/store"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
)

type Service interface {
	Public(ctx *ginext.Context)
	RegisterForm(ctx *ginext.Context)
	Register(ctx *ginext.Context)
	CloseRegistration(ctx *ginext.Context)
	EditRegistration(ctx *ginext.Context)
	UpdateRegistration(ctx *ginext.Context)
	Ticket(ctx *ginext.Context)

	Admin(ctx *ginext.Context)
	NewEvent(ctx *ginext.Context)
	EditEvent(ctx *ginext.Context)
	CreateEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)
	CloseEvent(ctx *ginext.Context)
	Refresh(ctx *ginext.Context)

	Scanner(ctx *ginext.Context)
	ScannerStart(ctx *ginext.Context)
	ScannerStop(ctx *ginext.Context)
	ScannerDecode(ctx *ginext.Context)
	ScannerDismiss(ctx *ginext.Context)

	ExportXLSX(ctx *ginext.Context)
	ExportPDF(ctx *ginext.Context)

	LegacyEvents(ctx *ginext.Context)
	LegacyRegister(ctx *ginext.Context)
	LegacyVerify(ctx *ginext.Context)
	Snapshot(ctx *ginext.Context)
}

type Deps struct {
	Store        *store.Store
	Events       *form.EventModal
	Registration *form.RegistrationModal
	Scanner      *scanner.Adapter
	Remote       *scanner.RemoteWidget
	Legacy       *legacy.Store
	Fallback     bool
	Renderer     *render.Renderer
	RecentLimit  int
	Log          *zerolog.Logger
}

type service struct {
	store    *store.Store
	events   *form.EventModal
	reg      *form.RegistrationModal
	scan     *scanner.Adapter
	remote   *scanner.RemoteWidget
	legacy   *legacy.Store
	fallback bool
	view     *render.Renderer
	recent   int
	log      *zerolog.Logger
	now      func() time.Time

	// scanning outlives the request that started it
	base context.Context
}

func NewService(base context.Context, d Deps) Service {
	return &service{
		store:    d.Store,
		events:   d.Events,
		reg:      d.Registration,
		scan:     d.Scanner,
		remote:   d.Remote,
		legacy:   d.Legacy,
		fallback: d.Fallback,
		view:     d.Renderer,
		recent:   d.RecentLimit,
		log:      d.Log,
		now:      time.Now,
		base:     base,
	}
}

func (s *service) render(ctx *ginext.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.view.Render(&buf, name, data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("failed to render page")
		dto.InternalServerError(ctx)
		return
	}
	ctx.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *service) Snapshot(ctx *ginext.Context) {
	snap := s.store.Snapshot()
	dto.SuccessResponse(ctx, dto.SnapshotResponse{
		Events:        snap.Events,
		Registrations: snap.Registrations,
		RefreshedAt:   snap.RefreshedAt,
		Seq:           snap.Seq,
	})
}

func paramID(ctx *ginext.Context, name string) (int, bool) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		dto.FieldIncorrectError(ctx, name)
		return 0, false
	}
	return id, true
}

func csrfField(ctx *ginext.Context) template.HTML {
	return csrf.TemplateField(ctx.Request)
}

func seeOther(ctx *ginext.Context, location string) {
	ctx.Redirect(http.StatusSeeOther, location)
}
