package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kidandcat/crm/internal/actions"
	"github.com/kidandcat/crm/internal/api"
	"github.com/kidandcat/crm/internal/board"
	"github.com/kidandcat/crm/internal/config"
	"github.com/kidandcat/crm/internal/handlers"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	views, closeViews := openViews(ctx)
	defer closeViews()

	act := actions.New(st, views, log, loc)

	r := mux.NewRouter()
	r.Use(handlers.Recover(log), handlers.AccessLog(log))
	api.New(act, log).Routes(r)
	board.Register()
	board.Mount(r, board.Handler(cfg.Timezone))
	handlers.New(act, log, loc).Routes(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(serverFields(cfg)).Info("crm running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// serverFields describes where the server listens and where users reach it.
func serverFields(c config.Config) logrus.Fields {
	return logrus.Fields{
		"addr":  c.Addr,
		"url":   c.BaseURL,
		"board": c.BaseURL + board.Path,
	}
}
