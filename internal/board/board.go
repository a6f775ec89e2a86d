// Package board is the WebAssembly leads board. It renders the same page as
// the server templates but keeps its state in the browser and applies notes,
// appointments and status changes before the API confirms them.
package board

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/ui"
)

const networkError = "Could not reach the server. Try again."

// timeNow is a variable for testability.
var timeNow = time.Now

type Board struct {
	app.Compo

	client *Client
	loc    *time.Location

	state  ui.State
	leads  []Lead
	loaded bool

	notes ui.Optimistic[Note]
	appts ui.Optimistic[Appointment]

	leadForm  LeadForm
	schedule  ScheduleForm
	noteDraft string
}

func New(c *Client) *Board {
	return &Board{client: c, loc: location(app.Getenv(envTimezone))}
}

// location resolves the server's time zone, falling back to the browser's.
func location(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		app.Log("unknown time zone:", name)
		return time.Local
	}
	return loc
}

func (b *Board) OnMount(ctx app.Context) {
	b.state = ui.FromValues(ctx.Page().URL().Query())
	if app.IsClient {
		b.reload(ctx)
	}
}

// reload fetches the leads and refreshes the open lead from them.
func (b *Board) reload(ctx app.Context) {
	ctx.Async(func() {
		res, err := b.client.ListLeads(context.Background())
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				app.Log("error loading leads:", err)
				b.state.Failed(networkError)
				return
			}
			if !res.Success {
				b.state.Failed(res.Message)
				return
			}
			b.setLeads(res.Data)
		})
	})
}

func (b *Board) setLeads(leads []Lead) {
	b.leads = leads
	b.loaded = true
	if l := b.selected(); l != nil {
		if b.notes.InFlight() == 0 {
			b.notes.Reset(l.Notes)
		}
		if b.appts.InFlight() == 0 {
			b.appts.Reset(l.Appointments)
		}
	} else if b.state.LeadID != "" {
		b.state.Close()
	}
}

func (b *Board) selected() *Lead {
	for i := range b.leads {
		if b.leads[i].ID == b.state.LeadID {
			return &b.leads[i]
		}
	}
	return nil
}

func (b *Board) visible() []Lead {
	return ui.FilterLeads(b.leads, b.state)
}

func (b *Board) selectLead(id string) {
	b.state.SelectLead(id)
	b.noteDraft = ""
	if l := b.selected(); l != nil {
		b.notes.Reset(l.Notes)
		b.appts.Reset(l.Appointments)
	}
}

func (b *Board) openAddLead() {
	b.leadForm = LeadForm{}
	b.state.OpenAddLead()
}

func (b *Board) openSchedule() {
	b.schedule = defaultSchedule(timeNow())
	b.state.OpenSchedule()
}

func (b *Board) createLead(ctx app.Context) {
	form := b.leadForm
	b.state.Submit()
	ctx.Async(func() {
		res, err := b.client.CreateLead(context.Background(), form)
		ctx.Dispatch(func(ctx app.Context) {
			if b.settleLead(res, err) {
				b.reload(ctx)
			}
		})
	})
}

func (b *Board) settleLead(res Result[*Lead], err error) bool {
	switch {
	case err != nil:
		b.state.Failed(networkError)
	case !res.Success:
		b.state.Rejected(res.Message, res.Errors)
	default:
		b.state.Succeeded(ui.Notice{Title: "Lead added", Description: res.Message})
		return true
	}
	return false
}

// changeStatus shows the new status right away and puts the old one back if
// the API refuses it.
func (b *Board) changeStatus(ctx app.Context, status string) {
	l := b.selected()
	if l == nil {
		return
	}
	id, prev := l.ID, l.Status
	l.Status = crm.LeadStatus(status)
	b.state.Submit()

	ctx.Async(func() {
		res, err := b.client.UpdateStatus(context.Background(), id, status)
		ctx.Dispatch(func(ctx app.Context) {
			b.settleStatus(id, prev, res, err)
		})
	})
}

func (b *Board) settleStatus(id string, prev crm.LeadStatus, res Result[string], err error) {
	ok := err == nil && res.Success
	if !ok {
		for i := range b.leads {
			if b.leads[i].ID == id {
				b.leads[i].Status = prev
			}
		}
	}
	switch {
	case err != nil:
		b.state.Failed(networkError)
	case !res.Success:
		b.state.Rejected(res.Message, res.Errors)
	default:
		b.state.Settled(res.Message)
	}
}

func (b *Board) addNote(ctx app.Context) {
	l := b.selected()
	if l == nil {
		return
	}
	id, content := l.ID, b.noteDraft
	key := b.notes.Add(Note{LeadID: id, Content: content, CreatedAt: timeNow()})
	b.noteDraft = ""
	b.state.Submit()

	ctx.Async(func() {
		res, err := b.client.AddNote(context.Background(), id, content)
		ctx.Dispatch(func(ctx app.Context) {
			if b.settleNote(key, content, res, err) {
				b.reload(ctx)
			}
		})
	})
}

func (b *Board) settleNote(key, content string, res Result[*Note], err error) bool {
	switch {
	case err != nil:
		b.notes.Revert(key)
		b.noteDraft = content
		b.state.Failed(networkError)
	case !res.Success || res.Data == nil:
		b.notes.Revert(key)
		b.noteDraft = content
		b.state.Rejected(res.Message, res.Errors)
	default:
		b.notes.Resolve(key, *res.Data)
		b.state.Settled(res.Message)
		return true
	}
	return false
}

func (b *Board) scheduleAppointment(ctx app.Context) {
	l := b.selected()
	if l == nil {
		return
	}
	id, form := l.ID, b.schedule
	if strings.TrimSpace(form.Duration) == "" {
		form.Duration = "0"
	}

	key := ""
	if pending, ok := pendingAppointment(id, form, b.loc); ok {
		key = b.appts.Add(pending)
	}
	b.state.Submit()

	ctx.Async(func() {
		res, err := b.client.Schedule(context.Background(), id, form)
		ctx.Dispatch(func(ctx app.Context) {
			if b.settleAppointment(key, res, err) {
				b.reload(ctx)
			}
		})
	})
}

// pendingAppointment builds the placeholder shown while the API works. The
// date and time are read in loc, as the server does. It reports false when
// the server would refuse the form, in which case nothing is shown.
func pendingAppointment(leadID string, f ScheduleForm, loc *time.Location) (Appointment, bool) {
	start, err := time.ParseInLocation("2006-01-02 15:04", f.Date+" "+f.Time, loc)
	if err != nil {
		return Appointment{}, false
	}
	minutes, err := strconv.Atoi(f.Duration)
	if err != nil || minutes < 15 || minutes > 24*60 {
		return Appointment{}, false
	}
	return Appointment{
		LeadID:    leadID,
		Title:     f.Title,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
	}, true
}

func (b *Board) settleAppointment(key string, res Result[*Appointment], err error) bool {
	failed := err != nil || !res.Success || res.Data == nil
	if failed {
		if key != "" {
			b.appts.Revert(key)
		}
		if err != nil {
			b.state.Failed(networkError)
		} else {
			b.state.Rejected(res.Message, res.Errors)
		}
		return false
	}
	if key == "" || !b.appts.Resolve(key, *res.Data) {
		b.appts.Reset(append([]Appointment{*res.Data}, b.appts.Items()...))
	}
	b.state.Succeeded(ui.Notice{Title: "Appointment scheduled", Description: res.Message})
	return true
}

func (b *Board) cancelAppointments(ctx app.Context) {
	l := b.selected()
	if l == nil {
		return
	}
	id, prev := l.ID, b.appts.Items()
	b.appts.Reset(nil)
	b.state.Submit()

	ctx.Async(func() {
		res, err := b.client.CancelAppointments(context.Background(), id)
		ctx.Dispatch(func(ctx app.Context) {
			if b.settleCancel(prev, res, err) {
				b.reload(ctx)
			}
		})
	})
}

func (b *Board) settleCancel(prev []Appointment, res Result[int64], err error) bool {
	switch {
	case err != nil:
		b.appts.Reset(prev)
		b.state.Failed(networkError)
	case !res.Success:
		b.appts.Reset(prev)
		b.state.Failed(res.Message)
	default:
		b.state.Settled(res.Message)
		return true
	}
	return false
}
