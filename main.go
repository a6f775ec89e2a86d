package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kidandcat/crm/internal/cache"
	"github.com/kidandcat/crm/internal/config"
	"github.com/kidandcat/crm/internal/seed"
	"github.com/kidandcat/crm/internal/store"
)

var (
	cfg config.Config
	log = logrus.New()

	flagAddr string
	flagDSN  string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crm",
		Short:         "Real estate CRM for leads, notes and viewings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			var err error
			cfg, err = config.Load(flagAddr, flagDSN)
			if err != nil {
				return err
			}
			return setupLogger(cfg.Log)
		},
	}
	root.PersistentFlags().StringVar(&flagAddr, "addr", "", "listen address (overrides CRM_ADDR)")
	root.PersistentFlags().StringVar(&flagDSN, "dsn", "", "database DSN (overrides DATABASE_URL)")

	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return root
}

func setupLogger(c config.LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	if c.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"driver": cfg.DB.Driver}).Info("database ready")
	return st, nil
}

// openViews connects the view cache, falling back to no caching when Redis is
// not configured or not reachable.
func openViews(ctx context.Context) (cache.Views, func()) {
	if cfg.Cache.RedisURL == "" {
		return cache.Nop{}, func() {}
	}
	r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, view cache disabled")
		return cache.Nop{}, func() {}
	}
	log.WithField("ttl", cfg.Cache.TTL).Info("view cache enabled")
	return r, func() { r.Close() }
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			log.Info("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		count int
		rnd   int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic leads, each with one note",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			views, closeViews := openViews(ctx)
			defer closeViews()

			_, err = seed.Run(ctx, st, views, log.WithField("component", "seed"), count, rnd)
			return err
		},
	}
	cmd.Flags().IntVar(&count, "count", seed.DefaultCount, "number of leads to create")
	cmd.Flags().Int64Var(&rnd, "seed", 1, "random seed for the generated data")
	return cmd
}
