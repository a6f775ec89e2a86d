package main

import (
	_ "time/tzdata"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/crm/internal/board"
)

// Built with GOARCH=wasm GOOS=js into web/app.wasm, which the serve command
// hands out under /web/.
func main() {
	board.Register()
	app.RunWhenOnBrowser()
}
