// Package actions validates form input, performs the matching write and
// drops cached views afterwards. Every operation returns a Result.
package actions

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/kidandcat/crm/internal/cache"
	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/store"
)

// Store is the part of the data layer the actions need.
type Store interface {
	ListLeads(ctx context.Context) ([]store.Lead, error)
	GetLead(ctx context.Context, id string) (*store.Lead, error)
	CreateLeadWithNote(ctx context.Context, l *store.Lead, note string) (*store.Note, error)
	UpdateLeadStatus(ctx context.Context, id string, status crm.LeadStatus) error
	CreateNote(ctx context.Context, leadID, content string) (*store.Note, error)
	CreateAppointment(ctx context.Context, leadID, title string, start time.Time, duration time.Duration) (*store.Appointment, error)
	DeleteAppointmentsByLead(ctx context.Context, leadID string) (int64, error)
}

// Failure tells transports what kind of failure a Result carries.
type Failure int

const (
	FailureNone Failure = iota
	FailureValidation
	FailureNotFound
	FailurePersistence
)

// FieldErrors maps a form field name to its messages.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// First returns the first message for field, or "".
func (e FieldErrors) First(field string) string {
	if len(e[field]) == 0 {
		return ""
	}
	return e[field][0]
}

type Result[T any] struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Errors  FieldErrors `json:"errors,omitempty"`
	Data    T           `json:"data,omitempty"`
	Failure Failure     `json:"-"`
}

func ok[T any](data T, msg string) Result[T] {
	return Result[T]{Success: true, Message: msg, Data: data}
}

func invalid[T any](msg string, errs FieldErrors) Result[T] {
	return Result[T]{Message: msg, Errors: errs, Failure: FailureValidation}
}

func failed[T any](kind Failure, msg string) Result[T] {
	return Result[T]{Message: msg, Failure: kind}
}

type Service struct {
	store    Store
	views    cache.Views
	log      logrus.FieldLogger
	loc      *time.Location
	validate *validator.Validate
}

// New wires the actions. views may be nil to disable caching; loc is used for
// form dates that carry no offset and defaults to time.Local.
func New(st Store, views cache.Views, log logrus.FieldLogger, loc *time.Location) *Service {
	if views == nil {
		views = cache.Nop{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:    st,
		views:    views,
		log:      log.WithField("component", "actions"),
		loc:      loc,
		validate: newValidator(),
	}
}

// invalidate drops every cached view. A failure only costs freshness until
// the TTL expires, so it is logged and not returned.
func (s *Service) invalidate(ctx context.Context) {
	if err := s.views.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("invalidate views")
	}
}
