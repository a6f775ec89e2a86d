package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kidandcat/crm/internal/actions"
)

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st := queryState(r)
	st.SelectLead(id)
	st.Submit()

	res := s.act.AddNote(r.Context(), id, r.FormValue("content"))
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
