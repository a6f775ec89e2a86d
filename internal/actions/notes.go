package actions

import (
	"context"
	"errors"
	"strings"

	"github.com/kidandcat/crm/internal/store"
)

const (
	msgNoteEmpty  = "Note content cannot be empty."
	msgNoteAdded  = "Note added."
	msgNoteFailed = "Failed to add note."
)

// AddNote attaches a note to a lead and returns it with its id and timestamp.
func (s *Service) AddNote(ctx context.Context, leadID, content string) Result[*store.Note] {
	if strings.TrimSpace(content) == "" {
		return invalid[*store.Note](msgNoteEmpty, FieldErrors{"content": {msgNoteEmpty}})
	}

	n, err := s.store.CreateNote(ctx, leadID, content)
	if errors.Is(err, store.ErrNotFound) {
		return failed[*store.Note](FailureNotFound, msgLeadNotFound)
	}
	if err != nil {
		s.log.WithError(err).WithField("lead_id", leadID).Error("add note")
		return failed[*store.Note](FailurePersistence, msgNoteFailed)
	}
	s.invalidate(ctx)
	return ok(n, msgNoteAdded)
}
