package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-catalog-go/internal/config"
	"github.com/ad-tracker/video-catalog-go/internal/db"
	"github.com/ad-tracker/video-catalog-go/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "Manage the video catalog database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Database URL; defaults to the APP_DATABASE_* configuration",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Before: func(c *cli.Context) error {
			return logger.Init(c.String("log-level"), "")
		},
		After: func(*cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			upCommand,
			downCommand,
			versionCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}
}

var stepsFlag = &cli.IntFlag{
	Name:  "steps",
	Usage: "Number of migrations to apply (0 means all)",
}

var upCommand = &cli.Command{
	Name:  "up",
	Usage: "Apply pending migrations",
	Flags: []cli.Flag{stepsFlag},
	Action: func(c *cli.Context) error {
		return withMigrator(c, func(m *migrate.Migrate) error {
			if steps := c.Int("steps"); steps > 0 {
				return m.Steps(steps)
			}
			return m.Up()
		})
	},
}

var downCommand = &cli.Command{
	Name:  "down",
	Usage: "Roll back migrations",
	Flags: []cli.Flag{
		stepsFlag,
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Roll back every migration; required when --steps is 0",
		},
	},
	Action: func(c *cli.Context) error {
		steps := c.Int("steps")
		if steps <= 0 && !c.Bool("all") {
			return errors.New("refusing to roll back everything without --all")
		}
		return withMigrator(c, func(m *migrate.Migrate) error {
			if steps > 0 {
				return m.Steps(-steps)
			}
			return m.Down()
		})
	},
}

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print the current schema version",
	Action: func(c *cli.Context) error {
		return withMigrator(c, func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(c.App.Writer, "no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func databaseURL(c *cli.Context) (string, error) {
	if url := c.String("db"); url != "" {
		return url, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.URL(), nil
}

func withMigrator(c *cli.Context, fn func(m *migrate.Migrate) error) error {
	url, err := databaseURL(c)
	if err != nil {
		return err
	}

	m, err := db.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Log.Warn("Closing migrator failed", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err := fn(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Log.Info("No migrations to apply", zap.String("command", c.Command.Name))
			return nil
		}
		return fmt.Errorf("%s: %w", c.Command.Name, err)
	}

	logger.Log.Info("Migration command completed", zap.String("command", c.Command.Name))
	return nil
}
