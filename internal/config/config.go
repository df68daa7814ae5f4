// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// dateLayout is the wire format of the collection window bounds.
const dateLayout = "2006-01-02"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken    string
	GitHubUsername string
	Repos          []string
	WindowStart    time.Time
	WindowEnd      time.Time
	DataRoot       string
	DBPath         string
	FileLevel      bool
}

// Load reads configuration from environment variables and returns a validated
// Config. Required: CLANALYSIS_GITHUB_TOKEN, CLANALYSIS_REPOS (comma-separated
// owner/repo names), CLANALYSIS_START_DATE and CLANALYSIS_END_DATE
// (YYYY-MM-DD, end inclusive and not before start). Optional with defaults:
// CLANALYSIS_GITHUB_USERNAME (empty), CLANALYSIS_DATA_ROOT (data),
// CLANALYSIS_DB_PATH (clanalysis.db), CLANALYSIS_FILE_LEVEL (false, set to
// "true" to also export the file level and feature datasets).
func Load() (*Config, error) {
	token := os.Getenv("CLANALYSIS_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("CLANALYSIS_GITHUB_TOKEN is required")
	}

	repos, err := parseRepos(os.Getenv("CLANALYSIS_REPOS"))
	if err != nil {
		return nil, err
	}

	start, err := parseDate("CLANALYSIS_START_DATE")
	if err != nil {
		return nil, err
	}
	end, err := parseDate("CLANALYSIS_END_DATE")
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("CLANALYSIS_END_DATE %s is before CLANALYSIS_START_DATE %s",
			end.Format(dateLayout), start.Format(dateLayout))
	}
	// The end date is inclusive: extend it to the last instant of that day.
	end = end.Add(24*time.Hour - time.Nanosecond)

	dataRoot := "data"
	if v, ok := os.LookupEnv("CLANALYSIS_DATA_ROOT"); ok && v != "" {
		dataRoot = v
	}

	dbPath := "clanalysis.db"
	if v, ok := os.LookupEnv("CLANALYSIS_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	fileLevel := false
	if v, ok := os.LookupEnv("CLANALYSIS_FILE_LEVEL"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			fileLevel = true
		case "false", "0", "no", "":
			fileLevel = false
		default:
			return nil, fmt.Errorf("CLANALYSIS_FILE_LEVEL has invalid value %q", v)
		}
	}

	return &Config{
		GitHubToken:    token,
		GitHubUsername: os.Getenv("CLANALYSIS_GITHUB_USERNAME"),
		Repos:          repos,
		WindowStart:    start,
		WindowEnd:      end,
		DataRoot:       dataRoot,
		DBPath:         dbPath,
		FileLevel:      fileLevel,
	}, nil
}

// parseRepos splits the comma-separated repository list and validates each
// entry is an owner/repo full name.
func parseRepos(raw string) ([]string, error) {
	var repos []string
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		parts := strings.SplitN(name, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("CLANALYSIS_REPOS entry %q is not an owner/repo name", name)
		}
		repos = append(repos, name)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("CLANALYSIS_REPOS is required")
	}
	return repos, nil
}

func parseDate(key string) (time.Time, error) {
	v := os.Getenv(key)
	if v == "" {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s has invalid date %q: expected YYYY-MM-DD", key, v)
	}
	return t, nil
}
