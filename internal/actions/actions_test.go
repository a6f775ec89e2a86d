package actions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/store"
)

// recorder is an in-memory view cache that counts invalidations.
type recorder struct {
	views       map[string]interface{}
	invalidated int
}

func (r *recorder) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := r.views[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *[]store.Lead:
		*d = v.([]store.Lead)
	case *store.Lead:
		*d = *v.(*store.Lead)
	}
	return true, nil
}

func (r *recorder) Set(_ context.Context, key string, v interface{}) error {
	r.views[key] = v
	return nil
}

func (r *recorder) Invalidate(context.Context) error {
	r.invalidated++
	r.views = map[string]interface{}{}
	return nil
}

// brokenStore fails every call.
type brokenStore struct{}

var errBroken = errors.New("disk on fire")

func (brokenStore) ListLeads(context.Context) ([]store.Lead, error)      { return nil, errBroken }
func (brokenStore) GetLead(context.Context, string) (*store.Lead, error) { return nil, errBroken }
func (brokenStore) UpdateLeadStatus(context.Context, string, crm.LeadStatus) error {
	return errBroken
}
func (brokenStore) CreateNote(context.Context, string, string) (*store.Note, error) {
	return nil, errBroken
}
func (brokenStore) CreateLeadWithNote(context.Context, *store.Lead, string) (*store.Note, error) {
	return nil, errBroken
}
func (brokenStore) CreateAppointment(context.Context, string, string, time.Time, time.Duration) (*store.Appointment, error) {
	return nil, errBroken
}
func (brokenStore) DeleteAppointmentsByLead(context.Context, string) (int64, error) {
	return 0, errBroken
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(t *testing.T) (*Service, *store.Store, *recorder) {
	t.Helper()
	st, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	views := &recorder{views: map[string]interface{}{}}
	return New(st, views, quietLogger(), time.UTC), st, views
}

func joSmith() LeadInput {
	return LeadInput{
		FirstName:        "Jo",
		LastName:         "Smith",
		Email:            "jo@x.com",
		PropertyInterest: crm.InterestHouse,
		Source:           crm.SourceReferral,
		Transaction:      crm.TransactionBuying,
		Note:             "Wants a pool",
	}
}

func mustCount(t *testing.T, st *store.Store) int {
	t.Helper()
	n, err := st.CountLeads(context.Background())
	require.NoError(t, err)
	return n
}

func TestCreateLeadJoSmith(t *testing.T) {
	svc, st, views := newTestService(t)
	ctx := context.Background()

	res := svc.CreateLead(ctx, joSmith())
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Lead added successfully.", res.Message)
	assert.Equal(t, FailureNone, res.Failure)
	assert.Equal(t, crm.StatusNew, res.Data.Status)
	assert.Equal(t, 1, views.invalidated)

	got, err := st.GetLead(ctx, res.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jo", got.FirstName)
	assert.Equal(t, "Smith", got.LastName)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "Wants a pool", got.Notes[0].Content)
}

func TestCreateLeadWithoutNote(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	for _, note := range []string{"", "  "} {
		in := joSmith()
		in.Note = note
		res := svc.CreateLead(ctx, in)
		require.True(t, res.Success)

		got, err := st.GetLead(ctx, res.Data.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Notes)
	}
}

func TestCreateLeadInvalidEmail(t *testing.T) {
	for _, email := range []string{"", "jo", "jo@", "@x.com", "jo at x.com"} {
		t.Run(email, func(t *testing.T) {
			svc, st, views := newTestService(t)
			in := joSmith()
			in.Email = email

			res := svc.CreateLead(context.Background(), in)
			assert.False(t, res.Success)
			assert.Equal(t, FailureValidation, res.Failure)
			assert.Equal(t, "Validation failed.", res.Message)
			assert.Equal(t, []string{"Invalid email address."}, res.Errors["email"])
			assert.Equal(t, 0, mustCount(t, st))
			assert.Equal(t, 0, views.invalidated)
		})
	}
}

func TestCreateLeadFieldErrors(t *testing.T) {
	svc, st, _ := newTestService(t)

	res := svc.CreateLead(context.Background(), LeadInput{
		FirstName:        " J ",
		LastName:         "",
		Email:            "jo@x.com",
		PropertyInterest: "CASTLE",
		Source:           crm.SourceWalkIn,
	})
	require.False(t, res.Success)
	assert.Equal(t, "First name is required.", res.Errors.First("firstName"))
	assert.Equal(t, "Last name is required.", res.Errors.First("lastName"))
	assert.Equal(t, "Select a property interest.", res.Errors.First("propertyInterest"))
	assert.Equal(t, "Select a transaction type.", res.Errors.First("transaction"))
	assert.Empty(t, res.Errors["source"])
	assert.Empty(t, res.Errors["email"])
	assert.Equal(t, 0, mustCount(t, st))
}

func TestPersistenceFailuresAreGeneric(t *testing.T) {
	views := &recorder{views: map[string]interface{}{}}
	svc := New(brokenStore{}, views, quietLogger(), time.UTC)
	ctx := context.Background()

	lead := svc.CreateLead(ctx, joSmith())
	assert.Equal(t, FailurePersistence, lead.Failure)
	assert.Equal(t, "Database Error: Failed to create lead.", lead.Message)
	assert.NotContains(t, lead.Message, errBroken.Error())

	status := svc.UpdateLeadStatus(ctx, "id", "CLOSED")
	assert.Equal(t, "Failed to update status.", status.Message)

	note := svc.AddNote(ctx, "id", "hello")
	assert.Equal(t, "Failed to add note.", note.Message)

	appt := svc.CreateAppointment(ctx, AppointmentInput{LeadID: "id", Title: "Viewing", StartTime: "2024-03-05T10:00", Duration: "60"})
	assert.Equal(t, "Database Error: Failed to schedule appointment.", appt.Message)

	cancel := svc.CancelAppointments(ctx, "id")
	assert.Equal(t, "Database Error: Failed to cancel appointments.", cancel.Message)

	list := svc.ListLeads(ctx)
	assert.Equal(t, FailurePersistence, list.Failure)

	assert.Equal(t, 0, views.invalidated)
}

func TestUpdateLeadStatusKeepsOtherFields(t *testing.T) {
	svc, st, views := newTestService(t)
	ctx := context.Background()

	created := svc.CreateLead(ctx, joSmith())
	require.True(t, created.Success)
	before, err := st.GetLead(ctx, created.Data.ID)
	require.NoError(t, err)

	res := svc.UpdateLeadStatus(ctx, created.Data.ID, "CLOSED")
	require.True(t, res.Success)
	assert.Equal(t, crm.StatusClosed, res.Data)
	assert.Equal(t, 2, views.invalidated)

	after := svc.GetLead(ctx, created.Data.ID)
	require.True(t, after.Success)
	assert.Equal(t, crm.StatusClosed, after.Data.Status)

	after.Data.Status = before.Status
	assert.Equal(t, before, after.Data)
}

func TestUpdateLeadStatusRejects(t *testing.T) {
	svc, _, views := newTestService(t)
	ctx := context.Background()

	res := svc.UpdateLeadStatus(ctx, "missing", "ARCHIVED")
	assert.Equal(t, FailureValidation, res.Failure)
	assert.Equal(t, "Invalid status.", res.Errors.First("status"))

	res = svc.UpdateLeadStatus(ctx, "missing", "CLOSED")
	assert.Equal(t, FailureNotFound, res.Failure)
	assert.Equal(t, 0, views.invalidated)
}

func TestAddNote(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	in := joSmith()
	in.Note = ""
	lead := svc.CreateLead(ctx, in)
	require.True(t, lead.Success)

	res := svc.AddNote(ctx, lead.Data.ID, "   ")
	assert.False(t, res.Success)
	assert.Equal(t, "Note content cannot be empty.", res.Message)
	assert.Equal(t, "Note content cannot be empty.", res.Errors.First("content"))

	got, err := st.GetLead(ctx, lead.Data.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Notes)

	res = svc.AddNote(ctx, lead.Data.ID, "Called back, prefers mornings")
	require.True(t, res.Success)
	assert.NotEmpty(t, res.Data.ID)
	assert.False(t, res.Data.CreatedAt.IsZero())

	res = svc.AddNote(ctx, "missing", "hello")
	assert.Equal(t, FailureNotFound, res.Failure)
}

func TestCreateAppointmentEndTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	lead := svc.CreateLead(ctx, joSmith())
	require.True(t, lead.Success)

	start := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	for _, minutes := range []int{15, 60, 95} {
		res := svc.CreateAppointment(ctx, AppointmentInput{
			LeadID:    lead.Data.ID,
			Title:     "Property Viewing",
			StartTime: start.Format(time.RFC3339),
			Duration:  Minutes(strconv.Itoa(minutes)),
		})
		require.True(t, res.Success, res.Errors)
		assert.Equal(t, "Appointment scheduled successfully.", res.Message)
		assert.Equal(t, time.Duration(minutes)*time.Minute, res.Data.EndTime.Sub(res.Data.StartTime))
		assert.WithinDuration(t, start, res.Data.StartTime, 0)
	}
}

func TestCreateAppointmentDateAndTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := svc.CreateLead(ctx, joSmith())
	require.True(t, lead.Success)

	res := svc.CreateAppointment(ctx, AppointmentInput{
		LeadID:   lead.Data.ID,
		Title:    "Property Viewing",
		Date:     "2024-03-05",
		Time:     "10:00",
		Duration: "60",
	})
	require.True(t, res.Success, res.Errors)
	assert.WithinDuration(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), res.Data.StartTime, 0)
	assert.WithinDuration(t, time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC), res.Data.EndTime, 0)
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, st, views := newTestService(t)
	ctx := context.Background()
	lead := svc.CreateLead(ctx, joSmith())
	require.True(t, lead.Success)
	invalidated := views.invalidated

	cases := []struct {
		name  string
		in    AppointmentInput
		field string
		msg   string
	}{
		{"short duration", AppointmentInput{LeadID: lead.Data.ID, Title: "Viewing", StartTime: "2024-03-05T10:00", Duration: "14"}, "duration", "Duration must be at least 15 minutes."},
		{"long duration", AppointmentInput{LeadID: lead.Data.ID, Title: "Viewing", StartTime: "2024-03-05T10:00", Duration: "200000000"}, "duration", "Duration must be at most 24 hours."},
		{"non numeric duration", AppointmentInput{LeadID: lead.Data.ID, Title: "Viewing", StartTime: "2024-03-05T10:00", Duration: "an hour"}, "duration", "Duration must be a whole number of minutes."},
		{"short title", AppointmentInput{LeadID: lead.Data.ID, Title: "Go", StartTime: "2024-03-05T10:00", Duration: "60"}, "title", "Title must be at least 3 characters."},
		{"bad start", AppointmentInput{LeadID: lead.Data.ID, Title: "Viewing", StartTime: "tomorrow", Duration: "60"}, "startTime", "Invalid date or time."},
		{"missing time", AppointmentInput{LeadID: lead.Data.ID, Title: "Viewing", Date: "2024-03-05", Duration: "60"}, "startTime", "Invalid date or time."},
		{"missing lead", AppointmentInput{Title: "Viewing", StartTime: "2024-03-05T10:00", Duration: "60"}, "leadId", "Lead is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := svc.CreateAppointment(ctx, tc.in)
			assert.False(t, res.Success)
			assert.Equal(t, FailureValidation, res.Failure)
			assert.Equal(t, []string{tc.msg}, res.Errors[tc.field])
		})
	}

	got, err := st.GetLead(ctx, lead.Data.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Appointments)
	assert.Equal(t, invalidated, views.invalidated)
}

func TestCancelAppointments(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	lead := svc.CreateLead(ctx, joSmith())
	require.True(t, lead.Success)

	res := svc.CancelAppointments(ctx, lead.Data.ID)
	require.True(t, res.Success)
	assert.Equal(t, int64(0), res.Data)

	for i := 0; i < 2; i++ {
		appt := svc.CreateAppointment(ctx, AppointmentInput{LeadID: lead.Data.ID, Title: "Viewing", StartTime: "2024-03-05 10:00", Duration: "30"})
		require.True(t, appt.Success)
	}
	res = svc.CancelAppointments(ctx, lead.Data.ID)
	require.True(t, res.Success)
	assert.Equal(t, int64(2), res.Data)

	res = svc.CancelAppointments(ctx, lead.Data.ID)
	require.True(t, res.Success)
	assert.Equal(t, int64(0), res.Data)

	got, err := st.GetLead(ctx, lead.Data.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Appointments)
}

func TestReadsUseCacheUntilInvalidated(t *testing.T) {
	svc, _, views := newTestService(t)
	ctx := context.Background()

	list := svc.ListLeads(ctx)
	require.True(t, list.Success)
	assert.Empty(t, list.Data)
	assert.Contains(t, views.views, "service:crm|leads|all")

	require.True(t, svc.CreateLead(ctx, joSmith()).Success)
	assert.Empty(t, views.views)

	list = svc.ListLeads(ctx)
	require.True(t, list.Success)
	assert.Len(t, list.Data, 1)

	missing := svc.GetLead(ctx, "missing")
	assert.Equal(t, FailureNotFound, missing.Failure)
}

func TestMinutesDecoding(t *testing.T) {
	for body, want := range map[string]Minutes{
		`{"duration":60}`:     "60",
		`{"duration":"45"}`:   "45",
		`{"duration":"soon"}`: "soon",
		`{"duration":null}`:   "",
	} {
		var in AppointmentInput
		require.NoError(t, json.Unmarshal([]byte(body), &in), body)
		assert.Equal(t, want, in.Duration, body)
	}

	var in AppointmentInput
	assert.Error(t, json.Unmarshal([]byte(`{"duration":true}`), &in))
}

func TestCreateAppointmentLongestDuration(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := svc.CreateLead(ctx, joSmith())
	require.True(t, lead.Success)

	res := svc.CreateAppointment(ctx, AppointmentInput{LeadID: lead.Data.ID, Title: "Open house", StartTime: "2024-03-05T10:00", Duration: "1440"})
	require.True(t, res.Success, res.Errors)
	assert.True(t, res.Data.EndTime.After(res.Data.StartTime))
	assert.Equal(t, 24*time.Hour, res.Data.EndTime.Sub(res.Data.StartTime))
}
