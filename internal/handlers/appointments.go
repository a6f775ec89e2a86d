package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kidandcat/crm/internal/actions"
	"github.com/kidandcat/crm/internal/ui"
)

func (s *Server) handleNewAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := queryState(r)
	st.SelectLead(id)
	st.OpenSchedule()

	v := s.newView(st)
	if !s.loadLead(w, r, v, id) {
		return
	}
	s.respond(w, r, v, false)
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := queryState(r)
	st.SelectLead(id)
	st.OpenSchedule()
	st.Submit()

	in := actions.AppointmentInput{
		LeadID:    id,
		Title:     r.FormValue("title"),
		StartTime: r.FormValue("startTime"),
		Date:      r.FormValue("date"),
		Time:      r.FormValue("time"),
		Duration:  actions.Minutes(r.FormValue("duration")),
	}
	res := s.act.CreateAppointment(r.Context(), in)
	if res.Failure == actions.FailureNotFound {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}

	v := s.newView(st)
	if !res.Success {
		reject(&v.State, res)
		v.Appt = in
		if !s.loadLead(w, r, v, id) {
			return
		}
		s.respond(w, r, v, false)
		return
	}
	v.State.Succeeded(ui.Notice{
		Title:       "Appointment scheduled",
		Description: res.Message,
	})
	s.respond(w, r, v, true)
}

func (s *Server) handleCancelAppointments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := queryState(r)
	st.SelectLead(id)
	st.Submit()

	res := s.act.CancelAppointments(r.Context(), id)
	if res.Success {
		st.Settled(res.Message)
	} else {
		st.Failed(res.Message)
	}

	v := s.newView(st)
	if !s.loadLead(w, r, v, id) {
		return
	}
	s.respond(w, r, v, res.Success)
}

func (s *Server) handleCloseDialog(w http.ResponseWriter, r *http.Request) {
	st := queryState(r)
	st.Close()

	v := s.newView(st)
	if st.Dialog == ui.DialogDetails && !s.loadLead(w, r, v, st.LeadID) {
		return
	}
	s.respond(w, r, v, false)
}
