package api

import (
	"eventdesk/cmd/middleware"
	"eventdesk/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
)

type Routers struct {
	Service service.Service
	Log     *zerolog.Logger
	// CSRF guards the HTML form routes when set.
	CSRF gin.HandlerFunc
	Mode string
}

func NewRouters(r *Routers) *ginext.Engine {
	mode := r.Mode
	if mode == "" {
		mode = "release"
	}
	app := ginext.New(mode)

	app.Use(middleware.RequestID())
	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(cors.Default())

	app.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := app.Group("/v1")
	apiGroup.GET("/snapshot", r.Service.Snapshot)

	legacyGroup := app.Group("/legacy")
	legacyGroup.GET("/events", r.Service.LegacyEvents)
	legacyGroup.POST("/registrations", r.Service.LegacyRegister)
	legacyGroup.POST("/verify", r.Service.LegacyVerify)

	public := app.Group("/")
	if r.CSRF != nil {
		public.Use(r.CSRF)
	}
	public.GET("/", r.Service.Public)
	public.POST("/register/close", r.Service.CloseRegistration)
	public.GET("/register/:id", r.Service.RegisterForm)
	public.POST("/register/:id", r.Service.Register)
	public.GET("/registrations/:id/edit", r.Service.EditRegistration)
	public.POST("/registrations/:id", r.Service.UpdateRegistration)
	public.GET("/ticket/:ticket", r.Service.Ticket)

	adm := app.Group("/adm")
	if r.CSRF != nil {
		adm.Use(r.CSRF)
	}
	adm.GET("", r.Service.Admin)
	adm.POST("/refresh", r.Service.Refresh)

	adm.GET("/events/new", r.Service.NewEvent)
	adm.POST("/events/close", r.Service.CloseEvent)
	adm.GET("/events/:id/edit", r.Service.EditEvent)
	adm.POST("/events", r.Service.CreateEvent)
	adm.POST("/events/:id", r.Service.UpdateEvent)
	adm.POST("/events/:id/delete", r.Service.DeleteEvent)

	adm.GET("/scanner", r.Service.Scanner)
	adm.POST("/scanner/start", r.Service.ScannerStart)
	adm.POST("/scanner/stop", r.Service.ScannerStop)
	adm.POST("/scanner/decode", r.Service.ScannerDecode)
	adm.POST("/scanner/dismiss", r.Service.ScannerDismiss)

	adm.GET("/export/xlsx", r.Service.ExportXLSX)
	adm.GET("/export/pdf", r.Service.ExportPDF)

	return app
}
