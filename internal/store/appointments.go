package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAppointment books a slot of duration starting at start.
func (s *Store) CreateAppointment(ctx context.Context, leadID, title string, start time.Time, duration time.Duration) (*Appointment, error) {
	if err := s.leadExists(ctx, leadID); err != nil {
		return nil, err
	}
	a := Appointment{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Title:     title,
		StartTime: start.UTC(),
		EndTime:   start.Add(duration).UTC(),
		CreatedAt: timeNow(),
	}
	if _, err := s.db.NamedExecContext(ctx, insertAppointment, a); err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return &a, nil
}

// DeleteAppointmentsByLead removes every appointment of the lead and reports
// how many were removed. A lead with none is not an error.
func (s *Store) DeleteAppointmentsByLead(ctx context.Context, leadID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(deleteAppointmentsByLead), leadID)
	if err != nil {
		return 0, fmt.Errorf("delete appointments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete appointments: %w", err)
	}
	return n, nil
}
