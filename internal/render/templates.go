package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PublicTemplate            = "public.html"
	AdminTemplate             = "admin.html"
	EventModalTemplate        = "event_modal.html"
	RegistrationModalTemplate = "registration_modal.html"
	ScannerTemplate           = "scanner.html"
	TicketTemplate            = "ticket.html"
)

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"dateLabel": DateLabel,
		"timeLabel": TimeLabel,
		"tabLabel":  TabLabel,
	}
	tmpl, err := template.New("eventdesk").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
