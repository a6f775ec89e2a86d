// Package ui holds the state of the leads page: which dialog is open, the
// table filters and the feedback of the last submitted form. The server
// keeps it in the URL and the board keeps it in its component.
package ui

import (
	"net/url"
	"strings"
)

type Dialog string

const (
	DialogNone     Dialog = ""
	DialogAddLead  Dialog = "add-lead"
	DialogDetails  Dialog = "details"
	DialogSchedule Dialog = "schedule"
	DialogSuccess  Dialog = "success"
)

// AllStatuses is the status filter value that disables filtering.
const AllStatuses = "ALL"

type Notice struct {
	Title       string
	Description string
}

type State struct {
	Search string
	Status string // empty means every status
	Dialog Dialog
	LeadID string
	Notice Notice

	Errors  map[string][]string
	Message string
	Pending bool
}

func (s *State) SetSearch(q string) {
	s.Search = q
}

func (s *State) SetStatusFilter(status string) {
	if status == AllStatuses {
		status = ""
	}
	s.Status = status
}

// StatusFilter returns the filter as shown in the select input.
func (s State) StatusFilter() string {
	if s.Status == "" {
		return AllStatuses
	}
	return s.Status
}

func (s *State) OpenAddLead() {
	s.clearFeedback()
	s.Dialog = DialogAddLead
	s.LeadID = ""
}

func (s *State) SelectLead(id string) {
	s.clearFeedback()
	s.Dialog = DialogDetails
	s.LeadID = id
}

// OpenSchedule opens the schedule dialog for the selected lead. Without a
// selected lead it does nothing.
func (s *State) OpenSchedule() {
	if s.LeadID == "" {
		return
	}
	s.clearFeedback()
	s.Dialog = DialogSchedule
}

// Close dismisses the open dialog. Closing the schedule dialog returns to the
// lead it was opened from.
func (s *State) Close() {
	s.clearFeedback()
	if s.Dialog == DialogSchedule && s.LeadID != "" {
		s.Dialog = DialogDetails
		return
	}
	s.Dialog = DialogNone
	s.LeadID = ""
	s.Notice = Notice{}
}

// Submit marks the open form as in flight.
func (s *State) Submit() {
	s.Errors = nil
	s.Message = ""
	s.Pending = true
}

// Rejected keeps the dialog open with the returned field errors.
func (s *State) Rejected(msg string, errs map[string][]string) {
	s.Pending = false
	s.Message = msg
	s.Errors = errs
}

// Failed keeps the dialog open with a message that belongs to no field.
func (s *State) Failed(msg string) {
	s.Pending = false
	s.Message = msg
	s.Errors = nil
}

// Settled ends a request that leaves the current dialog open, such as a
// status change from the details dialog.
func (s *State) Settled(msg string) {
	s.Pending = false
	s.Message = msg
	s.Errors = nil
}

// Succeeded replaces the open dialog with the success dialog.
func (s *State) Succeeded(n Notice) {
	s.clearFeedback()
	s.Dialog = DialogSuccess
	s.Notice = n
}

func (s State) ErrorFor(field string) string {
	if len(s.Errors[field]) == 0 {
		return ""
	}
	return s.Errors[field][0]
}

func (s *State) clearFeedback() {
	s.Errors = nil
	s.Message = ""
	s.Pending = false
}

// FromValues restores the parts of the state that live in the URL.
func FromValues(v url.Values) State {
	s := State{
		Search: v.Get("q"),
		Dialog: Dialog(v.Get("dialog")),
		LeadID: v.Get("lead"),
	}
	s.SetStatusFilter(v.Get("status"))
	switch s.Dialog {
	case DialogNone, DialogAddLead, DialogSuccess:
	case DialogDetails, DialogSchedule:
		if s.LeadID == "" {
			s.Dialog = DialogNone
		}
	default:
		s.Dialog = DialogNone
	}
	if s.Dialog == DialogSuccess {
		s.Notice = Notice{Title: v.Get("notice"), Description: v.Get("detail")}
	}
	return s
}

func (s State) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("q", strings.TrimSpace(s.Search))
	set("status", s.Status)
	set("dialog", string(s.Dialog))
	set("lead", s.LeadID)
	if s.Dialog == DialogSuccess {
		set("notice", s.Notice.Title)
		set("detail", s.Notice.Description)
	}
	return v
}

// URL returns path with the state as its query string.
func (s State) URL(path string) string {
	if q := s.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}
