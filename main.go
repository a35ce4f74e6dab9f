package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phatch9/Financial-Cloud-Management/api"
	"github.com/phatch9/Financial-Cloud-Management/internal/auth"
	"github.com/phatch9/Financial-Cloud-Management/internal/config"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
	"github.com/phatch9/Financial-Cloud-Management/internal/operator"
	"github.com/phatch9/Financial-Cloud-Management/internal/seed"
	"github.com/phatch9/Financial-Cloud-Management/internal/service"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage/memory"
	"github.com/phatch9/Financial-Cloud-Management/internal/storage/sqlconfig"
)

func main() {
	logger := logging.SetupLogging()

	app := &cli.App{
		Name:  "budget-server",
		Usage: "owner-scoped budgets and transactions over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "logrus level, overrides LOG_LEVEL"},
		},
		Before: func(c *cli.Context) error {
			if level := c.String("log-level"); level != "" {
				return logging.SetLevel(logger, level)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "listen port, overrides PORT"},
					&cli.StringFlag{Name: "backend", Usage: "postgres or memory, overrides STORAGE_BACKEND"},
					&cli.BoolFlag{Name: "dev-seed", Usage: "load the demo account on start, overrides DEV_SEED"},
				},
				Action: func(c *cli.Context) error {
					return serve(c, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending Postgres migrations and exit",
				Action: func(c *cli.Context) error {
					return migrate(c, logger)
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("budget-server")
	}
}

func loadConfig(c *cli.Context, logger *logrus.Logger) (*config.Config, error) {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}

	if c.IsSet("port") {
		envConfig.Port = c.String("port")
	}
	if c.IsSet("backend") {
		envConfig.StorageBackend = c.String("backend")
	}
	if c.IsSet("dev-seed") {
		envConfig.DevSeed = c.Bool("dev-seed")
	}
	if !c.IsSet("log-level") {
		if err = logging.SetLevel(logger, envConfig.LogLevel); err != nil {
			return nil, err
		}
	}

	if err = envConfig.Validate(); err != nil {
		return nil, err
	}
	return envConfig, nil
}

func openStorage(ctx context.Context, envConfig *config.Config) (*storage.Storage, error) {
	if envConfig.StorageBackend == config.BackendMemory {
		return memory.NewStorage(), nil
	}
	return sqlconfig.NewStorage(ctx, envConfig)
}

func serve(c *cli.Context, logger *logrus.Logger) error {
	envConfig, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"backend": envConfig.StorageBackend,
		"port":    envConfig.Port,
		"workers": envConfig.OperatorWorkers,
	}).Info("budget-server starting")

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, envConfig)
	if err != nil {
		return fmt.Errorf("openStorage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logrus.WithError(closeErr).Error("storage.Close")
		}
	}()

	delegator := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	authSvc, err := auth.NewService(store.Users, auth.Config{
		Secret:     envConfig.JWTSecret,
		TokenTTL:   envConfig.TokenTTL,
		BcryptCost: envConfig.BcryptCost,
	})
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}
	svc := service.NewService(store, delegator)

	if envConfig.DevSeed {
		if _, err = seed.Run(ctx, authSvc, svc, time.Now().UTC()); err != nil {
			return fmt.Errorf("seed.Run: %w", err)
		}
	}

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.Port,
		Storage: store,
		Auth:    authSvc,
		Service: svc,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return httpRest.Serve(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logrus.WithField("cause", context.Cause(groupCtx)).Info("budget-server stopping")
		return nil
	})
	return group.Wait()
}

// migrate runs the embedded migrations. It needs only the Postgres settings,
// so the server-side validation is skipped.
func migrate(c *cli.Context, logger *logrus.Logger) error {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	if !c.IsSet("log-level") {
		if err = logging.SetLevel(logger, envConfig.LogLevel); err != nil {
			return err
		}
	}

	envConfig.MigrateOnStart = true
	store, err := sqlconfig.NewStorage(c.Context, envConfig)
	if err != nil {
		return fmt.Errorf("sqlconfig.NewStorage: %w", err)
	}
	return store.Close()
}
