package main

import (
	"context"
	"fmt"
	"os"

	"github.com/QingyuanL1/financial-backend-sub000/internal/config"
	"github.com/QingyuanL1/financial-backend-sub000/internal/store"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// app is what every subcommand needs once configuration is loaded.
type app struct {
	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "financial-backend",
		Short:         "Financial reporting backend",
		Long:          "Serve monthly report data annotated with yearly budget plans, and manage those plans.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newBudgetCmd(opts),
	)
	return cmd
}

// setup loads the configuration and builds the logger. The caller must Sync
// the logger.
func (o *rootOptions) setup() (*app, error) {
	conf, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", o.configPath, err)
		return nil, err
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return nil, err
	}
	return &app{conf: conf, logger: logger}, nil
}

// openStore opens the configured datastore and makes sure the schema exists.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	s, err := store.Open(a.conf.Database, a.logger)
	if err != nil {
		a.logger.Error("failed to open database",
			zap.String("op", "main.openStore"),
			zap.String("driver", a.conf.Database.Driver),
			zap.Error(err),
		)
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		a.logger.Error("failed to migrate database",
			zap.String("op", "main.openStore"),
			zap.Error(err),
		)
		return nil, err
	}
	return s, nil
}
