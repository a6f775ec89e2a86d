// Package api exposes the lead actions as JSON. Every response body is an
// actions.Result envelope.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kidandcat/crm/internal/actions"
	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/store"
	"github.com/kidandcat/crm/internal/ui"
)

type Actions interface {
	ListLeads(ctx context.Context) actions.Result[[]store.Lead]
	GetLead(ctx context.Context, id string) actions.Result[*store.Lead]
	CreateLead(ctx context.Context, in actions.LeadInput) actions.Result[*store.Lead]
	UpdateLeadStatus(ctx context.Context, leadID, status string) actions.Result[crm.LeadStatus]
	AddNote(ctx context.Context, leadID, content string) actions.Result[*store.Note]
	CreateAppointment(ctx context.Context, in actions.AppointmentInput) actions.Result[*store.Appointment]
	CancelAppointments(ctx context.Context, leadID string) actions.Result[int64]
}

type API struct {
	act Actions
	log logrus.FieldLogger
}

func New(act Actions, log logrus.FieldLogger) *API {
	return &API{act: act, log: log.WithField("component", "api")}
}

func (a *API) Routes(r *mux.Router) {
	s := r.PathPrefix("/api").Subrouter()
	s.HandleFunc("/leads", a.handleListLeads).Methods(http.MethodGet)
	s.HandleFunc("/leads", a.handleCreateLead).Methods(http.MethodPost)
	s.HandleFunc("/leads/{id}", a.handleGetLead).Methods(http.MethodGet)
	s.HandleFunc("/leads/{id}/status", a.handleUpdateStatus).Methods(http.MethodPut)
	s.HandleFunc("/leads/{id}/notes", a.handleAddNote).Methods(http.MethodPost)
	s.HandleFunc("/leads/{id}/appointments", a.handleCreateAppointment).Methods(http.MethodPost)
	s.HandleFunc("/leads/{id}/appointments", a.handleCancelAppointments).Methods(http.MethodDelete)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, actions.Result[any]{Message: msg})
}

// writeResult picks the status code from the failure kind of res.
func writeResult[T any](w http.ResponseWriter, res actions.Result[T], okStatus int) {
	status := okStatus
	switch res.Failure {
	case actions.FailureValidation:
		status = http.StatusUnprocessableEntity
	case actions.FailureNotFound:
		status = http.StatusNotFound
	case actions.FailurePersistence:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.log.WithError(err).WithField("path", r.URL.Path).Debug("decode request")
		writeError(w, http.StatusBadRequest, "Invalid JSON.")
		return false
	}
	return true
}

func (a *API) handleListLeads(w http.ResponseWriter, r *http.Request) {
	res := a.act.ListLeads(r.Context())
	if res.Success {
		var st ui.State
		st.SetSearch(r.URL.Query().Get("q"))
		st.SetStatusFilter(r.URL.Query().Get("status"))
		res.Data = ui.FilterLeads(res.Data, st)
	}
	writeResult(w, res, http.StatusOK)
}

func (a *API) handleGetLead(w http.ResponseWriter, r *http.Request) {
	writeResult(w, a.act.GetLead(r.Context(), mux.Vars(r)["id"]), http.StatusOK)
}

func (a *API) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var in actions.LeadInput
	if !a.decode(w, r, &in) {
		return
	}
	writeResult(w, a.act.CreateLead(r.Context(), in), http.StatusCreated)
}

func (a *API) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	writeResult(w, a.act.UpdateLeadStatus(r.Context(), mux.Vars(r)["id"], req.Status), http.StatusOK)
}

func (a *API) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	writeResult(w, a.act.AddNote(r.Context(), mux.Vars(r)["id"], req.Content), http.StatusCreated)
}

func (a *API) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in actions.AppointmentInput
	if !a.decode(w, r, &in) {
		return
	}
	in.LeadID = mux.Vars(r)["id"]
	writeResult(w, a.act.CreateAppointment(r.Context(), in), http.StatusCreated)
}

func (a *API) handleCancelAppointments(w http.ResponseWriter, r *http.Request) {
	writeResult(w, a.act.CancelAppointments(r.Context(), mux.Vars(r)["id"]), http.StatusOK)
}
