// Command reposcan lists a user's repositories and writes the full names to
// a text file, one per line, ready to paste into CLANALYSIS_REPOS.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/googleinterns/cl-analysis/internal/adapter/driven/github"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	token := os.Getenv("CLANALYSIS_GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("CLANALYSIS_GITHUB_TOKEN is required")
	}

	if len(os.Args) != 2 || os.Args[1] == "" {
		return fmt.Errorf("usage: reposcan <github-user>")
	}
	user := os.Args[1]

	dataRoot := "data"
	if v, ok := os.LookupEnv("CLANALYSIS_DATA_ROOT"); ok && v != "" {
		dataRoot = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := githubadapter.NewClient(token, os.Getenv("CLANALYSIS_GITHUB_USERNAME"))

	repos, err := client.FetchRepositoriesByUser(ctx, user)
	if err != nil {
		return fmt.Errorf("listing repositories of %s: %w", user, err)
	}

	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dataRoot, user+"_repos.txt")
	if err := os.WriteFile(path, []byte(strings.Join(repos, "\n")+"\n"), 0o644); err != nil {
		return err
	}

	slog.Info("repositories written", "user", user, "count", len(repos), "path", path)
	return nil
}
