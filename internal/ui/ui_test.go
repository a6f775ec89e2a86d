package ui

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	first, last, email, status string
}

func (r row) SearchFields() []string { return []string{r.first, r.last, r.email} }
func (r row) PipelineStatus() string { return r.status }

func TestDialogTransitions(t *testing.T) {
	var s State

	s.SelectLead("l1")
	assert.Equal(t, DialogDetails, s.Dialog)
	assert.Equal(t, "l1", s.LeadID)

	s.OpenSchedule()
	assert.Equal(t, DialogSchedule, s.Dialog)

	s.Submit()
	assert.True(t, s.Pending)
	s.Rejected("Validation failed.", map[string][]string{"duration": {"too short"}})
	assert.False(t, s.Pending)
	assert.Equal(t, "too short", s.ErrorFor("duration"))
	assert.Empty(t, s.ErrorFor("title"))

	s.Close()
	assert.Equal(t, DialogDetails, s.Dialog)
	assert.Equal(t, "l1", s.LeadID)
	assert.Nil(t, s.Errors)

	s.OpenSchedule()
	s.Submit()
	s.Succeeded(Notice{Title: "Scheduled", Description: "See you there"})
	assert.Equal(t, DialogSuccess, s.Dialog)
	assert.False(t, s.Pending)

	s.Close()
	assert.Equal(t, DialogNone, s.Dialog)
	assert.Empty(t, s.LeadID)
	assert.Equal(t, Notice{}, s.Notice)
}

func TestOpenScheduleNeedsLead(t *testing.T) {
	var s State
	s.OpenSchedule()
	assert.Equal(t, DialogNone, s.Dialog)

	s.OpenAddLead()
	assert.Equal(t, DialogAddLead, s.Dialog)
	s.Submit()
	s.Failed("Database Error: Failed to create lead.")
	assert.Equal(t, DialogAddLead, s.Dialog)
	assert.Equal(t, "Database Error: Failed to create lead.", s.Message)
}

func TestStatusFilter(t *testing.T) {
	var s State
	s.SetStatusFilter("CLOSED")
	assert.Equal(t, "CLOSED", s.Status)
	assert.Equal(t, "CLOSED", s.StatusFilter())
	s.SetStatusFilter(AllStatuses)
	assert.Empty(t, s.Status)
	assert.Equal(t, "ALL", s.StatusFilter())
}

func TestURLRoundTrip(t *testing.T) {
	s := State{Search: "smith", Status: "NEW"}
	s.SelectLead("l1")

	u, err := url.Parse(s.URL("/"))
	require.NoError(t, err)
	assert.Equal(t, "/", u.Path)

	got := FromValues(u.Query())
	assert.Equal(t, "smith", got.Search)
	assert.Equal(t, "NEW", got.Status)
	assert.Equal(t, DialogDetails, got.Dialog)
	assert.Equal(t, "l1", got.LeadID)

	assert.Equal(t, "/", State{}.URL("/"))
}

func TestFromValuesDropsBrokenDialogs(t *testing.T) {
	assert.Equal(t, DialogNone, FromValues(url.Values{"dialog": {"details"}}).Dialog)
	assert.Equal(t, DialogNone, FromValues(url.Values{"dialog": {"bogus"}}).Dialog)

	s := FromValues(url.Values{"dialog": {"success"}, "notice": {"Done"}, "status": {"ALL"}})
	assert.Equal(t, DialogSuccess, s.Dialog)
	assert.Equal(t, "Done", s.Notice.Title)
	assert.Empty(t, s.Status)
}

func TestFilterLeads(t *testing.T) {
	rows := []row{
		{"Jo", "Smith", "jo@x.com", "NEW"},
		{"Ann", "Lee", "ann@smithco.com", "CLOSED"},
		{"Bob", "Stone", "bob@y.com", "NEW"},
	}

	assert.Len(t, FilterLeads(rows, State{}), 3)
	assert.Equal(t, []row{rows[0], rows[1]}, FilterLeads(rows, State{Search: " SMITH "}))
	assert.Equal(t, []row{rows[1]}, FilterLeads(rows, State{Search: "smith", Status: "CLOSED"}))
	assert.Equal(t, []row{rows[0], rows[2]}, FilterLeads(rows, State{Status: "NEW"}))
	assert.Empty(t, FilterLeads(rows, State{Search: "nobody"}))
}

func TestEnumLabel(t *testing.T) {
	assert.Equal(t, "Social Media", EnumLabel("SOCIAL_MEDIA"))
	assert.Equal(t, "Scheduled Visit", EnumLabel("SCHEDULED_VISIT"))
	assert.Equal(t, "House", EnumLabel("HOUSE"))
	assert.Equal(t, "", EnumLabel(""))
}

func TestStatusVariant(t *testing.T) {
	assert.Equal(t, "default", StatusVariant("NEW"))
	assert.Equal(t, "secondary", StatusVariant("CONTACTED"))
	assert.Equal(t, "success", StatusVariant("CLOSED"))
	assert.Equal(t, "destructive", StatusVariant("DROPPED"))
	assert.Equal(t, "outline", StatusVariant("SCHEDULED_VISIT"))
}

func TestOptimistic(t *testing.T) {
	var o Optimistic[string]
	o.Reset([]string{"b", "a"})

	k1 := o.Add("c?")
	k2 := o.Add("d?")
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, 2, o.InFlight())
	assert.Equal(t, []string{"d?", "c?", "b", "a"}, o.Items())

	entries := o.Entries()
	assert.True(t, entries[0].Pending)
	assert.Equal(t, k2, entries[0].Key)
	assert.False(t, entries[2].Pending)

	assert.True(t, o.Resolve(k1, "c"))
	assert.True(t, o.Revert(k2))
	assert.False(t, o.Revert(k2))
	assert.Equal(t, 0, o.InFlight())
	assert.Equal(t, []string{"c", "b", "a"}, o.Items())

	o.Add("e?")
	o.Reset([]string{"z"})
	assert.Equal(t, []string{"z"}, o.Items())
}
