package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kidandcat/crm/internal/actions"
	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/ui"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v := s.newView(queryState(r))
	if err := s.loadLeads(r.Context(), v); err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if v.State.LeadID != "" {
		if res := s.act.GetLead(r.Context(), v.State.LeadID); res.Success {
			v.Lead = res.Data
		} else {
			v.State.Dialog = ui.DialogNone
			v.State.LeadID = ""
		}
	}
	s.render(w, "index.html", v)
}

func (s *Server) handleLeadsTable(w http.ResponseWriter, r *http.Request) {
	st := queryState(r)
	if !isHTMX(r) {
		http.Redirect(w, r, st.URL("/"), http.StatusSeeOther)
		return
	}

	v := s.newView(st)
	if err := s.loadLeads(r.Context(), v); err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if r.Header.Get("HX-Trigger") == "filters" {
		w.Header().Set("HX-Replace-Url", st.URL("/"))
	}
	s.render(w, "leads_table", v)
}

func (s *Server) handleNewLead(w http.ResponseWriter, r *http.Request) {
	st := queryState(r)
	st.OpenAddLead()
	s.respond(w, r, s.newView(st), false)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	st := queryState(r)
	st.OpenAddLead()
	st.Submit()

	in := actions.LeadInput{
		FirstName:        r.FormValue("firstName"),
		LastName:         r.FormValue("lastName"),
		Email:            r.FormValue("email"),
		Phone:            r.FormValue("phone"),
		PropertyInterest: crm.PropertyInterest(r.FormValue("propertyInterest")),
		Source:           crm.LeadSource(r.FormValue("source")),
		Transaction:      crm.TransactionType(r.FormValue("transaction")),
		Note:             r.FormValue("note"),
	}
	res := s.act.CreateLead(r.Context(), in)

	v := s.newView(st)
	v.Input = in
	if !res.Success {
		reject(&v.State, res)
		s.respond(w, r, v, false)
		return
	}
	v.State.Succeeded(ui.Notice{
		Title:       "Lead added",
		Description: res.Message,
	})
	s.respond(w, r, v, true)
}

func (s *Server) handleLeadDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := queryState(r)
	st.SelectLead(id)

	v := s.newView(st)
	if !s.loadLead(w, r, v, id) {
		return
	}
	s.respond(w, r, v, false)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := queryState(r)
	st.SelectLead(id)
	st.Submit()

	res := s.act.UpdateLeadStatus(r.Context(), id, r.FormValue("status"))
	if res.Failure == actions.FailureNotFound {
		http.Error(w, "Lead not found", http.StatusNotFound)
		return
	}
	if res.Success {
		st.Settled(res.Message)
	} else {
		reject(&st, res)
	}

	v := s.newView(st)
	if !s.loadLead(w, r, v, id) {
		return
	}
	s.respond(w, r, v, res.Success)
}

// reject puts a failed result into the state of the open dialog.
func reject[T any](st *ui.State, res actions.Result[T]) {
	if res.Failure == actions.FailureValidation {
		st.Rejected(res.Message, res.Errors)
		return
	}
	st.Failed(res.Message)
}
