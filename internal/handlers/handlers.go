// Package handlers serves the leads page and its dialogs as server-rendered
// HTML. Requests made by htmx get partials back; plain form posts are
// answered with a redirect that carries the page state in the URL.
package handlers

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/kidandcat/crm/internal/actions"
	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/store"
	"github.com/kidandcat/crm/internal/ui"
)

//go:embed templates/*.html static/*
var assets embed.FS

// LeadsChanged is the htmx event sent after every successful write. The
// leads table listens for it and reloads itself.
const LeadsChanged = "leads-changed"

// timeNow is a variable for testability.
var timeNow = time.Now

// Actions is what the pages need from the action layer.
type Actions interface {
	ListLeads(ctx context.Context) actions.Result[[]store.Lead]
	GetLead(ctx context.Context, id string) actions.Result[*store.Lead]
	CreateLead(ctx context.Context, in actions.LeadInput) actions.Result[*store.Lead]
	UpdateLeadStatus(ctx context.Context, leadID, status string) actions.Result[crm.LeadStatus]
	AddNote(ctx context.Context, leadID, content string) actions.Result[*store.Note]
	CreateAppointment(ctx context.Context, in actions.AppointmentInput) actions.Result[*store.Appointment]
	CancelAppointments(ctx context.Context, leadID string) actions.Result[int64]
}

type Server struct {
	act  Actions
	log  logrus.FieldLogger
	loc  *time.Location
	tmpl *template.Template
}

func New(act Actions, log logrus.FieldLogger, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{act: act, log: log.WithField("component", "handlers"), loc: loc}
	s.tmpl = template.Must(template.New("").Funcs(s.funcs()).ParseFS(assets, "templates/*.html"))
	return s
}

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"label": func(v any) string { return ui.EnumLabel(fmt.Sprint(v)) },
		"badge": func(v any) string { return ui.StatusVariant(fmt.Sprint(v)) },
		"markdown": func(content string) template.HTML {
			var buf strings.Builder
			if err := goldmark.Convert([]byte(content), &buf); err != nil {
				return template.HTML("<p>Error rendering note</p>")
			}
			return template.HTML(buf.String())
		},
		"eq": func(a, b any) bool {
			return fmt.Sprint(a) == fmt.Sprint(b)
		},
		"dict": func(values ...any) map[string]any {
			d := make(map[string]any)
			for i := 0; i < len(values)-1; i += 2 {
				d[fmt.Sprint(values[i])] = values[i+1]
			}
			return d
		},
		"formatTime": func(t time.Time) string {
			return t.In(s.loc).Format("Jan 2, 2006 15:04")
		},
		"formatDate": func(t time.Time) string {
			return t.In(s.loc).Format("Jan 2, 2006")
		},
		"interests":    func() []crm.PropertyInterest { return crm.PropertyInterests },
		"sources":      func() []crm.LeadSource { return crm.LeadSources },
		"transactions": func() []crm.TransactionType { return crm.TransactionTypes },
		"statuses":     func() []crm.LeadStatus { return crm.Statuses },
		"filters": func(st ui.State) template.URL {
			return template.URL(ui.State{Search: st.Search, Status: st.Status}.Values().Encode())
		},
		"stateQuery": func(st ui.State) template.URL {
			return template.URL(st.Values().Encode())
		},
		"detailsURL": func(st ui.State, id string) string {
			st.SelectLead(id)
			return st.URL("/")
		},
		"closeURL": func(st ui.State) string {
			st.Close()
			return st.URL("/")
		},
	}
}

// Routes registers the page, its partials and the static assets on r.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/leads", s.handleLeadsTable).Methods(http.MethodGet)
	r.HandleFunc("/leads", s.handleCreateLead).Methods(http.MethodPost)
	r.HandleFunc("/leads/new", s.handleNewLead).Methods(http.MethodGet)
	r.HandleFunc("/leads/{id}", s.handleLeadDetails).Methods(http.MethodGet)
	r.HandleFunc("/leads/{id}/status", s.handleUpdateStatus).Methods(http.MethodPost)
	r.HandleFunc("/leads/{id}/notes", s.handleAddNote).Methods(http.MethodPost)
	r.HandleFunc("/leads/{id}/appointments/new", s.handleNewAppointment).Methods(http.MethodGet)
	r.HandleFunc("/leads/{id}/appointments", s.handleCreateAppointment).Methods(http.MethodPost)
	r.HandleFunc("/leads/{id}/appointments/cancel", s.handleCancelAppointments).Methods(http.MethodPost)
	r.HandleFunc("/dialogs/close", s.handleCloseDialog).Methods(http.MethodGet)

	static, _ := fs.Sub(assets, "static")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

// view is the data every template receives.
type view struct {
	State ui.State
	Leads []store.Lead
	Total int
	Lead  *store.Lead
	Input actions.LeadInput
	Appt  actions.AppointmentInput
	Today string
}

func (s *Server) newView(st ui.State) *view {
	return &view{
		State: st,
		Appt: actions.AppointmentInput{
			Title:    "Property Viewing",
			Date:     timeNow().In(s.loc).Format("2006-01-02"),
			Time:     "10:00",
			Duration: "60",
		},
		Today: timeNow().In(s.loc).Format("2006-01-02"),
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.WithError(err).WithField("template", name).Error("render template")
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// queryState reads the page state from the query string. Form bodies are not
// consulted since their fields share names with the filters.
func queryState(r *http.Request) ui.State {
	return ui.FromValues(r.URL.Query())
}

// respond finishes a request that changed the open dialog: htmx gets the
// dialog partial, everything else is sent back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, v *view, changed bool) {
	if changed {
		w.Header().Set("HX-Trigger", LeadsChanged)
	}
	if isHTMX(r) {
		s.render(w, "dialog", v)
		return
	}
	if !changed && (v.State.Errors != nil || v.State.Message != "") {
		// A redirect would drop the errors.
		if err := s.loadLeads(r.Context(), v); err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, "index.html", v)
		return
	}
	http.Redirect(w, r, v.State.URL("/"), http.StatusSeeOther)
}

func (s *Server) loadLeads(ctx context.Context, v *view) error {
	res := s.act.ListLeads(ctx)
	if !res.Success {
		return errors.New(res.Message)
	}
	v.Total = len(res.Data)
	v.Leads = ui.FilterLeads(res.Data, v.State)
	return nil
}

// loadLead fills v.Lead, writing a response and returning false when it
// cannot.
func (s *Server) loadLead(w http.ResponseWriter, r *http.Request, v *view, id string) bool {
	res := s.act.GetLead(r.Context(), id)
	switch res.Failure {
	case actions.FailureNone:
		v.Lead = res.Data
		return true
	case actions.FailureNotFound:
		http.Error(w, "Lead not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
	return false
}
