package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/catalog"
	"github.com/phrazzld/magicshop-api/internal/config"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/platform/postgres"
	"github.com/phrazzld/magicshop-api/internal/service"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "magicshop",
		Short: "Magic shop inventory and storefront API",
		Long: `magicshop serves the shopkeeper API and the public storefront.

Configuration is read from config.yaml in the working directory (or --config)
and overridden by MAGICSHOP_* environment variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")

	root.AddCommand(newServeCmd(opts), newMigrateCmd(opts), newImportCmd(opts))
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			db, err := postgres.Open(ctx, cfg.Database, log)
			if err != nil {
				return err
			}

			app, err := newApplication(ctx, cfg, log, db)
			if err != nil {
				_ = db.Close()
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.cleanup()
			return app.Run(ctx)
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <" + strings.Join(postgres.MigrationCommands, "|") + ">",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			db, err := postgres.Open(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(cmd.Context(), db, args[0], log)
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var storeRef string
	cmd := &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Add every item in a YAML catalog to a store",
		Long: `Import reads a YAML list of items and adds them to the store owned by
--store. Either every item is created or none is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, err := uuid.Parse(storeRef)
			if err != nil {
				return fmt.Errorf("invalid --store %q: %w", storeRef, err)
			}
			fields, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}

			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			db, err := postgres.Open(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			items, err := service.NewItemService(postgres.NewPostgresItemStore(db, log), db, nil, log)
			if err != nil {
				return err
			}
			imported, err := items.ImportItems(cmd.Context(), storeID, fields)
			if err != nil {
				return err
			}

			log.Info("catalog imported",
				slog.String("store_id", storeID.String()),
				slog.Int("count", len(imported)))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d items\n", len(imported))
			return err
		},
	}
	cmd.Flags().StringVar(&storeRef, "store", "", "ID of the owning user's store")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}

// bootstrap loads configuration and installs the configured logger as
// the slog default.
func (o *rootOptions) bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("drafting_enabled", cfg.LLM.GeminiAPIKey != ""))
	return cfg, log, nil
}
