package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/googleinterns/cl-analysis/internal/adapter/driven/csvfile"
	githubadapter "github.com/googleinterns/cl-analysis/internal/adapter/driven/github"
	sqliteadapter "github.com/googleinterns/cl-analysis/internal/adapter/driven/sqlite"
	"github.com/googleinterns/cl-analysis/internal/application"
	"github.com/googleinterns/cl-analysis/internal/config"
	"github.com/googleinterns/cl-analysis/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"repos", cfg.Repos,
		"window_start", cfg.WindowStart,
		"window_end", cfg.WindowEnd,
		"data_root", cfg.DataRoot,
		"db_path", cfg.DBPath,
		"file_level", cfg.FileLevel,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	runStore := sqliteadapter.NewRunRepo(db)
	writer := csvfile.NewWriter(cfg.DataRoot)
	ghClient := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubUsername)

	// 6. Create the collect service.
	svc, err := application.NewCollectService(ghClient, writer, runStore, cfg.FileLevel)
	if err != nil {
		return err
	}

	window, err := model.NewWindow(cfg.WindowStart, cfg.WindowEnd)
	if err != nil {
		return err
	}

	// 7. Collect each configured repository. A failed repository does not
	// block the remaining ones; the overall run fails if any repository
	// failed.
	var failed int
	for _, repo := range cfg.Repos {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary, err := svc.CollectRepo(ctx, repo, window)
		if err != nil {
			slog.Error("repository collection failed", "repo", repo, "error", err)
			failed++
			continue
		}
		slog.Info("repository collected",
			"repo", repo,
			"run_id", summary.RunID,
			"records", summary.Records,
			"output", summary.OutputPath,
		)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d repositories failed", failed, len(cfg.Repos))
	}

	slog.Info("collection complete", "repos", len(cfg.Repos))
	return nil
}
