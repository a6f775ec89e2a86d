// Package seed fills an empty database with synthetic leads for demos.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"

	"github.com/kidandcat/crm/internal/cache"
	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/store"
)

const DefaultCount = 50

type Store interface {
	Ping(ctx context.Context) error
	CreateLeadWithNote(ctx context.Context, l *store.Lead, note string) (*store.Note, error)
}

// Run creates count leads, each with one note. Leads that fail to insert are
// logged and skipped. It returns how many were created.
func Run(ctx context.Context, st Store, views cache.Views, log logrus.FieldLogger, count int, seed int64) (int, error) {
	if err := st.Ping(ctx); err != nil {
		return 0, fmt.Errorf("database connection failed: %w", err)
	}
	log.Info("database connection successful")

	f := gofakeit.New(seed)
	created := 0
	for i := 1; i <= count; i++ {
		l, note := fakeLead(f)
		if _, err := st.CreateLeadWithNote(ctx, l, note); err != nil {
			log.WithError(err).WithField("lead", i).Error("failed to create lead")
			continue
		}
		created++
		log.WithFields(logrus.Fields{"lead": i, "total": count}).Debug("created lead")
	}

	if views != nil && created > 0 {
		if err := views.Invalidate(ctx); err != nil {
			log.WithError(err).Warn("view cache invalidation failed")
		}
	}
	log.WithField("count", created).Info("seeded leads with notes")
	return created, nil
}

func fakeLead(f *gofakeit.Faker) (*store.Lead, string) {
	l := &store.Lead{
		FirstName:        f.FirstName(),
		LastName:         f.LastName(),
		Email:            f.Email(),
		Phone:            f.Phone(),
		PropertyInterest: pick(f, crm.PropertyInterests),
		Source:           pick(f, crm.LeadSources),
		Transaction:      pick(f, crm.TransactionTypes),
		Status:           pick(f, crm.Statuses),
	}
	return l, "Details: " + f.Sentence(8)
}

func pick[T any](f *gofakeit.Faker, values []T) T {
	return values[f.IntRange(0, len(values)-1)]
}
