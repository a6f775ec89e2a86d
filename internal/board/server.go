package board

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Path is where the board is served.
const Path = "/board"

// envTimezone carries the zone the server reads form dates in, so pending
// appointments show the time that will be stored.
const envTimezone = "CRM_TIMEZONE"

// Register routes the board component. Both the browser build and the server
// must call it, the latter so it can prerender the page.
func Register() {
	app.Route(Path, func() app.Composer { return New(NewClient("")) })
}

// Handler serves the board page and the go-app runtime files. The WebAssembly
// binary is read from web/app.wasm. timezone is an IANA name or "Local".
func Handler(timezone string) *app.Handler {
	return &app.Handler{
		Name:        "Real Estate CRM",
		ShortName:   "CRM",
		Title:       "Leads board",
		Description: "Track leads, notes and viewings",
		Styles:      []string{"/static/crm.css"},
		Env:         map[string]string{envTimezone: timezone},
	}
}

// Mount registers h on the paths the go-app runtime requests.
func Mount(r *mux.Router, h http.Handler) {
	r.Handle(Path, h)
	r.PathPrefix("/web/").Handler(h)
	for _, p := range []string{
		"/app.js",
		"/app.css",
		"/wasm_exec.js",
		"/app-worker.js",
		"/manifest.webmanifest",
	} {
		r.Handle(p, h)
	}
}
