package board

import (
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"github.com/yuin/goldmark"

	"github.com/kidandcat/crm/internal/crm"
	"github.com/kidandcat/crm/internal/ui"
)

func (b *Board) Render() app.UI {
	return app.Div().Class("board").Body(
		app.Header().Class("topbar").Body(
			app.H1().Text("Leads"),
			app.Button().Text("Add Lead").OnClick(func(ctx app.Context, e app.Event) {
				b.openAddLead()
			}),
		),
		app.Main().Body(
			b.renderFilters(),
			app.If(!b.loaded, func() app.UI {
				return app.P().Class("empty").Text("Loading leads…")
			}).Else(func() app.UI {
				return b.renderTable()
			}),
		),
		b.renderDialog(),
	)
}

func value(ctx app.Context) string {
	return ctx.JSSrc().Get("value").String()
}

func (b *Board) renderFilters() app.UI {
	opts := []app.UI{app.Option().Value(ui.AllStatuses).Text("All statuses")}
	for _, s := range crm.Statuses {
		opts = append(opts, app.Option().
			Value(string(s)).
			Selected(string(s) == b.state.StatusFilter()).
			Text(ui.EnumLabel(string(s))))
	}
	return app.Div().Class("filters").Body(
		app.Input().
			Type("search").
			Placeholder("Search by name or email…").
			Value(b.state.Search).
			OnInput(func(ctx app.Context, e app.Event) {
				b.state.SetSearch(value(ctx))
			}),
		app.Select().Body(opts...).OnChange(func(ctx app.Context, e app.Event) {
			b.state.SetStatusFilter(value(ctx))
		}),
	)
}

func (b *Board) renderTable() app.UI {
	leads := b.visible()
	return app.Section().Body(
		app.P().Class("count").Textf("Showing %d of %d leads", len(leads), len(b.leads)),
		app.Table().Class("leads").Body(
			app.THead().Body(app.Tr().Body(
				app.Th().Text("Name"),
				app.Th().Text("Email"),
				app.Th().Text("Interest"),
				app.Th().Text("Source"),
				app.Th().Text("Status"),
			)),
			app.TBody().Body(
				app.If(len(leads) == 0, func() app.UI {
					return app.Tr().Body(app.Td().ColSpan(5).Class("empty").Text("No leads found."))
				}).Else(func() app.UI {
					return app.Range(leads).Slice(func(i int) app.UI {
						l := leads[i]
						return app.Tr().Class("clickable").
							OnClick(func(ctx app.Context, e app.Event) { b.selectLead(l.ID) }).
							Body(
								app.Td().Text(l.FirstName+" "+l.LastName),
								app.Td().Text(l.Email),
								app.Td().Text(ui.EnumLabel(string(l.PropertyInterest))),
								app.Td().Text(ui.EnumLabel(string(l.Source))),
								app.Td().Body(badge(l.Status)),
							)
					})
				}),
			),
		),
	)
}

func badge(s crm.LeadStatus) app.UI {
	return app.Span().Class("badge badge-" + ui.StatusVariant(string(s))).Text(ui.EnumLabel(string(s)))
}

func (b *Board) renderDialog() app.UI {
	switch b.state.Dialog {
	case ui.DialogAddLead:
		return b.renderAddLead()
	case ui.DialogDetails:
		if l := b.selected(); l != nil {
			return b.renderDetails(l)
		}
	case ui.DialogSchedule:
		if l := b.selected(); l != nil {
			return b.renderSchedule(l)
		}
	case ui.DialogSuccess:
		return b.renderSuccess()
	}
	return app.Div()
}

func (b *Board) dialog(title, class string, body ...app.UI) app.UI {
	return app.Div().Class("backdrop").Body(
		app.Div().Class("dialog "+class).Body(
			app.Header().Body(
				app.H2().Text(title),
				app.Button().Class("close").Text("×").OnClick(func(ctx app.Context, e app.Event) {
					b.state.Close()
				}),
			),
			app.Div().Body(body...),
		),
	)
}

func (b *Board) fieldError(field string) app.UI {
	return app.If(b.state.ErrorFor(field) != "", func() app.UI {
		return app.P().Class("error").Text(b.state.ErrorFor(field))
	})
}

func (b *Board) message() app.UI {
	return app.If(b.state.Message != "", func() app.UI {
		return app.P().Class("form-message").Text(b.state.Message)
	})
}

func textField(label, typ, val string, set func(string)) app.HTMLLabel {
	return app.Label().Body(
		app.Text(label),
		app.Input().Type(typ).Value(val).OnInput(func(ctx app.Context, e app.Event) {
			set(value(ctx))
		}),
	)
}

func enumSelect[T ~string](values []T, current T, set func(T)) app.UI {
	opts := []app.UI{app.Option().Value("").Text("Select…")}
	for _, v := range values {
		opts = append(opts, app.Option().Value(string(v)).Selected(v == current).Text(ui.EnumLabel(string(v))))
	}
	return app.Select().Body(opts...).OnChange(func(ctx app.Context, e app.Event) {
		set(T(value(ctx)))
	})
}

func (b *Board) renderAddLead() app.UI {
	f := &b.leadForm
	return b.dialog("Add New Lead", "",
		app.Form().
			OnSubmit(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				b.createLead(ctx)
			}).
			Body(
				textField("First name", "text", f.FirstName, func(v string) { f.FirstName = v }),
				b.fieldError("firstName"),
				textField("Last name", "text", f.LastName, func(v string) { f.LastName = v }),
				b.fieldError("lastName"),
				textField("Email", "email", f.Email, func(v string) { f.Email = v }),
				b.fieldError("email"),
				textField("Phone", "tel", f.Phone, func(v string) { f.Phone = v }),
				app.Label().Body(app.Text("Property interest"),
					enumSelect(crm.PropertyInterests, f.PropertyInterest, func(v crm.PropertyInterest) { f.PropertyInterest = v })),
				b.fieldError("propertyInterest"),
				app.Label().Body(app.Text("Source"),
					enumSelect(crm.LeadSources, f.Source, func(v crm.LeadSource) { f.Source = v })),
				b.fieldError("source"),
				app.Label().Body(app.Text("Transaction"),
					enumSelect(crm.TransactionTypes, f.Transaction, func(v crm.TransactionType) { f.Transaction = v })),
				b.fieldError("transaction"),
				app.Label().Body(
					app.Text("Initial note"),
					app.Textarea().Rows(3).Text(f.Note).OnInput(func(ctx app.Context, e app.Event) {
						f.Note = value(ctx)
					}),
				),
				b.message(),
				app.Button().Type("submit").Disabled(b.state.Pending).Text("Add Lead"),
			),
	)
}

func (b *Board) renderDetails(l *Lead) app.UI {
	statuses := make([]app.UI, 0, len(crm.Statuses))
	for _, s := range crm.Statuses {
		statuses = append(statuses, app.Option().Value(string(s)).Selected(s == l.Status).Text(ui.EnumLabel(string(s))))
	}
	phone := l.Phone
	if phone == "" {
		phone = "N/A"
	}
	appts := b.appts.Entries()
	notes := b.notes.Entries()

	return b.dialog(l.FirstName+" "+l.LastName, "wide",
		app.Dl().Class("attributes").Body(
			app.Dt().Text("Email"), app.Dd().Text(l.Email),
			app.Dt().Text("Phone"), app.Dd().Text(phone),
			app.Dt().Text("Interest"), app.Dd().Text(ui.EnumLabel(string(l.PropertyInterest))),
			app.Dt().Text("Source"), app.Dd().Text(ui.EnumLabel(string(l.Source))),
			app.Dt().Text("Transaction"), app.Dd().Text(ui.EnumLabel(string(l.Transaction))),
		),
		app.Label().Body(
			app.Text("Status"),
			app.Select().Disabled(b.state.Pending).Body(statuses...).OnChange(func(ctx app.Context, e app.Event) {
				b.changeStatus(ctx, value(ctx))
			}),
			badge(l.Status),
		),
		b.fieldError("status"),
		b.message(),
		app.Section().Class("appointments").Body(
			app.H3().Text("Appointments"),
			app.If(len(appts) == 0, func() app.UI {
				return app.P().Class("empty").Text("No appointment scheduled.")
			}).Else(func() app.UI {
				return app.Range(appts).Slice(func(i int) app.UI {
					a := appts[i]
					return app.Div().Class("appointment").Body(
						app.Strong().Text(a.Item.Title),
						app.Span().Text(a.Item.StartTime.Format("Jan 2, 2006 15:04")+" – "+a.Item.EndTime.Format("15:04")),
						app.If(a.Pending, func() app.UI { return app.Span().Class("empty").Text("saving…") }),
					)
				})
			}),
			app.Div().Class("actions").Body(
				app.Button().Text("Schedule Appointment").OnClick(func(ctx app.Context, e app.Event) {
					b.openSchedule()
				}),
				app.If(len(appts) > 0, func() app.UI {
					return app.Button().Class("destructive").Disabled(b.state.Pending).Text("Cancel Appointments").
						OnClick(func(ctx app.Context, e app.Event) {
							b.cancelAppointments(ctx)
						})
				}),
			),
		),
		app.Section().Class("notes").Body(
			app.H3().Text("Notes"),
			app.Form().
				OnSubmit(func(ctx app.Context, e app.Event) {
					e.PreventDefault()
					b.addNote(ctx)
				}).
				Body(
					app.Textarea().Rows(2).Placeholder("Add a new note…").Text(b.noteDraft).
						OnInput(func(ctx app.Context, e app.Event) { b.noteDraft = value(ctx) }),
					b.fieldError("content"),
					app.Button().Type("submit").Disabled(b.state.Pending).Text("Add Note"),
				),
			app.If(len(notes) == 0, func() app.UI {
				return app.P().Class("empty").Text("No notes yet.")
			}).Else(func() app.UI {
				return app.Range(notes).Slice(func(i int) app.UI {
					n := notes[i]
					return app.Article().Class("note").Body(
						app.Raw(markdown(n.Item.Content)),
						app.If(n.Pending, func() app.UI {
							return app.Span().Class("empty").Text("saving…")
						}).Else(func() app.UI {
							return app.Span().Class("empty").Text(n.Item.CreatedAt.Format("Jan 2, 2006 15:04"))
						}),
					)
				})
			}),
		),
	)
}

func (b *Board) renderSchedule(l *Lead) app.UI {
	f := &b.schedule
	return b.dialog("Schedule Appointment", "",
		app.P().Class("subtitle").Text(l.FirstName+" "+l.LastName),
		app.Form().
			OnSubmit(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				b.scheduleAppointment(ctx)
			}).
			Body(
				textField("Title", "text", f.Title, func(v string) { f.Title = v }),
				b.fieldError("title"),
				textField("Date", "date", f.Date, func(v string) { f.Date = v }),
				textField("Time", "time", f.Time, func(v string) { f.Time = v }),
				b.fieldError("startTime"),
				textField("Duration (minutes)", "number", f.Duration, func(v string) { f.Duration = v }),
				b.fieldError("duration"),
				b.message(),
				app.Button().Type("submit").Disabled(b.state.Pending).Text("Schedule"),
			),
	)
}

func (b *Board) renderSuccess() app.UI {
	return b.dialog(b.state.Notice.Title, "narrow",
		app.Div().Class("success-mark").Text("✓"),
		app.P().Text(b.state.Notice.Description),
		app.Button().Text("Continue").OnClick(func(ctx app.Context, e app.Event) {
			b.state.Close()
		}),
	)
}

// markdown renders a note to HTML wrapped in a single element, as app.Raw
// requires.
func markdown(content string) string {
	var buf strings.Builder
	buf.WriteString(`<div class="content">`)
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return `<div class="content"><p>Error rendering note</p></div>`
	}
	buf.WriteString(`</div>`)
	return buf.String()
}
