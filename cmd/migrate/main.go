package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/leviwiederhold/forman/pkg/config"
	"github.com/leviwiederhold/forman/pkg/db"
	"github.com/leviwiederhold/forman/pkg/logger"
	"github.com/leviwiederhold/forman/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "up|down|status|version|to|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "directory for create and validate")
	name := flag.String("name", "", "migration name for -cmd=create")
	target := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=to")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := logg.WithField(context.Background(), "cmd", *cmd)

	// create and validate work on the source tree and need no config
	switch *cmd {
	case "create":
		if *name == "" {
			exit(ctx, logg, "missing -name for create", nil)
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			exit(ctx, logg, "create migration", err)
		}
		fmt.Println("created", path)
		return
	case "validate":
		if err := migrate.Validate(os.DirFS(*dir)); err != nil {
			exit(ctx, logg, "validate migrations", err)
		}
		fmt.Println("migrations valid")
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		exit(ctx, logg, "load config", err)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		Fields:      map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver},
	})
	ctx = logg.WithField(context.Background(), "cmd", *cmd)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		exit(ctx, logg, "connect database", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		exit(ctx, logg, "sql handle", err)
	}
	migrator, err := migrate.New(sqlDB, dbClient.Driver(), nil)
	if err != nil {
		exit(ctx, logg, "build migrator", err)
	}

	if err := run(ctx, migrator, *cmd, *target); err != nil {
		exit(ctx, logg, "migrate "+*cmd, err)
	}
}

func run(ctx context.Context, migrator *migrate.Migrator, cmd, target string) error {
	switch cmd {
	case "up":
		applied, err := migrator.Up(ctx)
		fmt.Printf("applied %d migration(s)\n", applied)
		return err
	case "down":
		return migrator.Down(ctx)
	case "version":
		version, err := migrator.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Println(version)
		return nil
	case "to":
		version, err := migrate.ParseVersion(target)
		if err != nil {
			return err
		}
		return migrator.To(ctx, version)
	case "status":
		rows, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
		for _, row := range rows {
			state, appliedAt := "pending", "-"
			if row.Applied {
				state, appliedAt = "applied", row.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", row.Version, state, appliedAt, row.Source)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown -cmd %q", cmd)
	}
}

func exit(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if err == nil {
		err = errors.New(msg)
	}
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
