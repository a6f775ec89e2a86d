package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kidandcat/crm/internal/crm"
)

// ListLeads returns every lead newest first, with notes newest first and
// appointments by start time.
func (s *Store) ListLeads(ctx context.Context) ([]Lead, error) {
	leads := []Lead{}
	if err := s.db.SelectContext(ctx, &leads, selectLeads); err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}

	var notes []Note
	if err := s.db.SelectContext(ctx, &notes, selectNotes); err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	var appts []Appointment
	if err := s.db.SelectContext(ctx, &appts, selectAppointments); err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}

	byID := make(map[string]*Lead, len(leads))
	for i := range leads {
		leads[i].Notes = []Note{}
		leads[i].Appointments = []Appointment{}
		byID[leads[i].ID] = &leads[i]
	}
	for _, n := range notes {
		if l, ok := byID[n.LeadID]; ok {
			l.Notes = append(l.Notes, n)
		}
	}
	for _, a := range appts {
		if l, ok := byID[a.LeadID]; ok {
			l.Appointments = append(l.Appointments, a)
		}
	}
	return leads, nil
}

func (s *Store) GetLead(ctx context.Context, id string) (*Lead, error) {
	var l Lead
	err := s.db.GetContext(ctx, &l, s.db.Rebind(selectLeadByID), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query lead: %w", err)
	}

	l.Notes = []Note{}
	if err := s.db.SelectContext(ctx, &l.Notes, s.db.Rebind(selectNotesByLead), id); err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	l.Appointments = []Appointment{}
	if err := s.db.SelectContext(ctx, &l.Appointments, s.db.Rebind(selectAppointmentsByLead), id); err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	return &l, nil
}

// CreateLeadWithNote inserts the lead and, when note has non-blank content, a
// first note for it. Both rows are written in one transaction. ID, Status and
// CreatedAt are filled in on l.
func (s *Store) CreateLeadWithNote(ctx context.Context, l *Lead, note string) (*Note, error) {
	now := timeNow()
	l.ID = uuid.NewString()
	l.CreatedAt = now
	if l.Status == "" {
		l.Status = crm.StatusNew
	}
	l.Notes = []Note{}
	l.Appointments = []Appointment{}

	var created *Note
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertLead, l); err != nil {
			return fmt.Errorf("insert lead: %w", err)
		}
		if strings.TrimSpace(note) == "" {
			return nil
		}
		n := Note{ID: uuid.NewString(), LeadID: l.ID, Content: note, CreatedAt: now}
		if _, err := tx.NamedExecContext(ctx, insertNote, n); err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		created = &n
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created != nil {
		l.Notes = append(l.Notes, *created)
	}
	return created, nil
}

// UpdateLeadStatus changes only the status column.
func (s *Store) UpdateLeadStatus(ctx context.Context, id string, status crm.LeadStatus) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(updateLeadStatus), status, id)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountLeads(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, countLeads); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

func (s *Store) leadExists(ctx context.Context, id string) error {
	var found string
	err := s.db.GetContext(ctx, &found, s.db.Rebind(`SELECT id FROM leads WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query lead: %w", err)
	}
	return nil
}
