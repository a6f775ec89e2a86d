package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateNote(ctx context.Context, leadID, content string) (*Note, error) {
	if err := s.leadExists(ctx, leadID); err != nil {
		return nil, err
	}
	n := Note{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Content:   content,
		CreatedAt: timeNow(),
	}
	if _, err := s.db.NamedExecContext(ctx, insertNote, n); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &n, nil
}
