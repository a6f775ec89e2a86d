package actions

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kidandcat/crm/internal/store"
)

const (
	msgAppointmentCreated = "Appointment scheduled successfully."
	msgAppointmentFailed  = "Database Error: Failed to schedule appointment."
	msgCancelled          = "Appointments cancelled."
	msgCancelFailed       = "Database Error: Failed to cancel appointments."
	msgBadStart           = "Invalid date or time."
	msgBadDuration        = "Duration must be a whole number of minutes."
)

// AppointmentInput is the schedule form. The start is either StartTime or the
// Date and Time pair.
type AppointmentInput struct {
	LeadID    string      `json:"leadId"`
	Title     string      `json:"title"`
	StartTime string      `json:"startTime,omitempty"`
	Date      string      `json:"date,omitempty"`
	Time      string      `json:"time,omitempty"`
	Duration  Minutes     `json:"duration"`
}

// Minutes is a duration in minutes as typed into the form. It decodes from a
// JSON number or string so that a bad value is reported on the duration field.
type Minutes string

func (m *Minutes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = Minutes(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = Minutes(n)
	return nil
}

type appointmentForm struct {
	LeadID   string `form:"leadId" validate:"required"`
	Title    string `form:"title" validate:"min=3"`
	Duration int    `form:"duration" validate:"min=15,max=1440"`
}

var startLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// parseStart accepts an RFC 3339 instant or a local date and time in loc.
func parseStart(in AppointmentInput, loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(in.StartTime)
	if raw == "" {
		date, clock := strings.TrimSpace(in.Date), strings.TrimSpace(in.Time)
		if date == "" || clock == "" {
			return time.Time{}, false
		}
		raw = date + " " + clock
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreateAppointment books a viewing. The end time is the start plus the
// duration in minutes.
func (s *Service) CreateAppointment(ctx context.Context, in AppointmentInput) Result[*store.Appointment] {
	errs := FieldErrors{}
	form := appointmentForm{
		LeadID: strings.TrimSpace(in.LeadID),
		Title:  strings.TrimSpace(in.Title),
	}

	start, okStart := parseStart(in, s.loc)
	if !okStart {
		errs.add("startTime", msgBadStart)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(string(in.Duration)))
	if err != nil {
		errs.add("duration", msgBadDuration)
	}
	form.Duration = minutes

	if errs = s.check(form, errs); len(errs) > 0 {
		return invalid[*store.Appointment](msgValidationFailed, errs)
	}

	a, err := s.store.CreateAppointment(ctx, form.LeadID, form.Title, start, time.Duration(form.Duration)*time.Minute)
	if errors.Is(err, store.ErrNotFound) {
		return failed[*store.Appointment](FailureNotFound, msgLeadNotFound)
	}
	if err != nil {
		s.log.WithError(err).WithField("lead_id", form.LeadID).Error("create appointment")
		return failed[*store.Appointment](FailurePersistence, msgAppointmentFailed)
	}
	s.invalidate(ctx)
	return ok(a, msgAppointmentCreated)
}

// CancelAppointments removes every appointment of the lead. Cancelling when
// there is nothing booked succeeds with a count of zero.
func (s *Service) CancelAppointments(ctx context.Context, leadID string) Result[int64] {
	n, err := s.store.DeleteAppointmentsByLead(ctx, leadID)
	if err != nil {
		s.log.WithError(err).WithField("lead_id", leadID).Error("cancel appointments")
		return failed[int64](FailurePersistence, msgCancelFailed)
	}
	s.invalidate(ctx)
	return ok(n, msgCancelled)
}
