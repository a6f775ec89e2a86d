package actions

import (
	"context"
	"errors"
	"strings"

	"github.com/kidandcat/crm/internal/cache"
	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/store"
)

const (
	msgLeadCreated      = "Lead added successfully."
	msgLeadCreateFailed = "Database Error: Failed to create lead."
	msgStatusUpdated    = "Status updated."
	msgStatusFailed     = "Failed to update status."
	msgLeadNotFound     = "Lead not found."
	msgLoadFailed       = "Database Error: Failed to load leads."
)

// LeadInput is the add-lead form.
type LeadInput struct {
	FirstName        string               `json:"firstName" form:"firstName" validate:"min=2"`
	LastName         string               `json:"lastName" form:"lastName" validate:"min=2"`
	Email            string               `json:"email" form:"email" validate:"required,email"`
	Phone            string               `json:"phone" form:"phone" validate:"max=40"`
	PropertyInterest crm.PropertyInterest `json:"propertyInterest" form:"propertyInterest" validate:"enum"`
	Source           crm.LeadSource       `json:"source" form:"source" validate:"enum"`
	Transaction      crm.TransactionType  `json:"transaction" form:"transaction" validate:"enum"`
	Note             string               `json:"note" form:"note"`
}

func (in *LeadInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

// CreateLead stores a new lead with status NEW, together with its first note
// when one was given.
func (s *Service) CreateLead(ctx context.Context, in LeadInput) Result[*store.Lead] {
	in.normalize()
	if errs := s.check(in, FieldErrors{}); len(errs) > 0 {
		return invalid[*store.Lead](msgValidationFailed, errs)
	}

	l := &store.Lead{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		PropertyInterest: in.PropertyInterest,
		Source:           in.Source,
		Transaction:      in.Transaction,
		Status:           crm.StatusNew,
	}
	if _, err := s.store.CreateLeadWithNote(ctx, l, in.Note); err != nil {
		s.log.WithError(err).WithField("email", in.Email).Error("create lead")
		return failed[*store.Lead](FailurePersistence, msgLeadCreateFailed)
	}
	s.invalidate(ctx)
	s.log.WithField("lead_id", l.ID).Info("lead created")
	return ok(l, msgLeadCreated)
}

// UpdateLeadStatus moves a lead to any pipeline status.
func (s *Service) UpdateLeadStatus(ctx context.Context, leadID, status string) Result[crm.LeadStatus] {
	next := crm.LeadStatus(status)
	if !next.Valid() {
		return invalid[crm.LeadStatus](msgValidationFailed, FieldErrors{"status": {messages["status.enum"]}})
	}

	err := s.store.UpdateLeadStatus(ctx, leadID, next)
	if errors.Is(err, store.ErrNotFound) {
		return failed[crm.LeadStatus](FailureNotFound, msgLeadNotFound)
	}
	if err != nil {
		s.log.WithError(err).WithField("lead_id", leadID).Error("update lead status")
		return failed[crm.LeadStatus](FailurePersistence, msgStatusFailed)
	}
	s.invalidate(ctx)
	return ok(next, msgStatusUpdated)
}

// ListLeads returns all leads, newest first, from the view cache when possible.
func (s *Service) ListLeads(ctx context.Context) Result[[]store.Lead] {
	var leads []store.Lead
	if s.cached(ctx, cache.LeadsKey(), &leads) {
		return ok(leads, "")
	}

	leads, err := s.store.ListLeads(ctx)
	if err != nil {
		s.log.WithError(err).Error("list leads")
		return failed[[]store.Lead](FailurePersistence, msgLoadFailed)
	}
	s.remember(ctx, cache.LeadsKey(), leads)
	return ok(leads, "")
}

func (s *Service) GetLead(ctx context.Context, id string) Result[*store.Lead] {
	var l store.Lead
	if s.cached(ctx, cache.LeadKey(id), &l) {
		return ok(&l, "")
	}

	got, err := s.store.GetLead(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return failed[*store.Lead](FailureNotFound, msgLeadNotFound)
	}
	if err != nil {
		s.log.WithError(err).WithField("lead_id", id).Error("get lead")
		return failed[*store.Lead](FailurePersistence, msgLoadFailed)
	}
	s.remember(ctx, cache.LeadKey(id), got)
	return ok(got, "")
}

func (s *Service) cached(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.views.Get(ctx, key, dest)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("read cached view")
		return false
	}
	return hit
}

func (s *Service) remember(ctx context.Context, key string, v interface{}) {
	if err := s.views.Set(ctx, key, v); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache view")
	}
}
