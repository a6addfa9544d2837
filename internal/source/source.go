// Package source fetches daily download snapshots from anaconda.org.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/huangsam/pkgpulse/internal/contract"
	"github.com/huangsam/pkgpulse/schema"
)

// DefaultPlatforms is the list of platform subdirectories scanned for
// package names.
var DefaultPlatforms = []string{
	"noarch",
	"linux-64",
	"linux-aarch64",
	"linux-ppc64le",
	"osx-64",
	"osx-arm64",
	"win-64",
}

// Only files published under the main label as conda artifacts count toward
// download totals.
const (
	mainLabel     = "main"
	condaFileType = "conda"
)

// AnacondaSourceImpl retrieves cumulative download counts from the
// anaconda.org package API. Package listings come from each platform's
// repodata index on the repo host.
type AnacondaSourceImpl struct {
	client      *http.Client
	apiBaseURL  string
	repoBaseURL string
	channels    []string
	platforms   []string
	retries     int
	workers     int
}

var _ contract.CountSource = &AnacondaSourceImpl{} // Compile-time check

// NewAnacondaSource creates a count source from the runtime configuration.
func NewAnacondaSource(cfg *contract.Config) contract.CountSource {
	return &AnacondaSourceImpl{
		client:      &http.Client{Timeout: 60 * time.Second},
		apiBaseURL:  strings.TrimRight(cfg.APIBaseURL, "/"),
		repoBaseURL: strings.TrimRight(cfg.RepoBaseURL, "/"),
		channels:    cfg.Channels,
		platforms:   DefaultPlatforms,
		retries:     cfg.FetchRetries,
		workers:     cfg.Workers,
	}
}

// repodataDoc is the slice of a repodata.json index we care about. Filenames
// key both maps; only the package name field matters here.
type repodataDoc struct {
	Packages      map[string]repodataEntry `json:"packages"`
	PackagesConda map[string]repodataEntry `json:"packages.conda"`
}

type repodataEntry struct {
	Name string `json:"name"`
}

// packageDoc is the slice of a package API response we care about.
type packageDoc struct {
	Files []packageFile `json:"files"`
}

type packageFile struct {
	Labels     []string `json:"labels"`
	Type       string   `json:"type"`
	Version    string   `json:"version"`
	Basename   string   `json:"basename"`
	NDownloads int64    `json:"ndownloads"`
	Attrs      struct {
		Subdir string `json:"subdir"`
	} `json:"attrs"`
}

// Fetch returns the cumulative download totals of every file in the
// configured channels. Packages that fail after retries are logged and
// omitted; their keys simply do not appear in the snapshot.
func (s *AnacondaSourceImpl) Fetch(ctx context.Context, _ schema.Date) (schema.Snapshot, error) {
	snapshot := make(schema.Snapshot)
	var mu sync.Mutex

	for _, channel := range s.channels {
		names, err := s.packageNames(ctx, channel)
		if err != nil {
			return nil, fmt.Errorf("failed to list packages for channel %s: %w", channel, err)
		}

		nameCh := make(chan string, len(names))
		var wg sync.WaitGroup
		for range s.workers {
			wg.Go(func() {
				for name := range nameCh {
					if ctx.Err() != nil {
						continue
					}
					counts, err := s.packageCounts(ctx, channel, name)
					if err != nil {
						contract.LogWarn(fmt.Sprintf("skipping package %s::%s", channel, name), err)
						continue
					}
					mu.Lock()
					for k, total := range counts {
						snapshot[k] = total
					}
					mu.Unlock()
				}
			})
		}
		for _, name := range names {
			nameCh <- name
		}
		close(nameCh)
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return snapshot, nil
}

// packageNames lists the distinct package names of a channel across all
// platform subdirectories.
func (s *AnacondaSourceImpl) packageNames(ctx context.Context, channel string) ([]string, error) {
	nameSet := make(map[string]struct{})
	for _, platform := range s.platforms {
		url := fmt.Sprintf("%s/%s/%s/repodata.json", s.repoBaseURL, channel, platform)
		var doc repodataDoc
		if err := s.getJSON(ctx, url, &doc); err != nil {
			return nil, fmt.Errorf("repodata for %s/%s: %w", channel, platform, err)
		}
		for _, entry := range doc.Packages {
			nameSet[entry.Name] = struct{}{}
		}
		for _, entry := range doc.PackagesConda {
			nameSet[entry.Name] = struct{}{}
		}
	}
	delete(nameSet, "")

	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// packageCounts fetches one package's file listing and extracts the leaf
// totals. Files outside the main label or not of conda type are ignored.
func (s *AnacondaSourceImpl) packageCounts(ctx context.Context, channel, name string) (schema.Snapshot, error) {
	url := fmt.Sprintf("%s/package/%s/%s", s.apiBaseURL, channel, name)
	var doc packageDoc
	if err := s.getJSON(ctx, url, &doc); err != nil {
		return nil, err
	}

	counts := make(schema.Snapshot, len(doc.Files))
	for _, file := range doc.Files {
		if file.Type != condaFileType || !hasLabel(file.Labels, mainLabel) {
			continue
		}
		// Basenames occasionally carry a platform prefix
		base := file.Basename
		if i := strings.LastIndex(base, "/"); i >= 0 {
			base = base[i+1:]
		}
		key, err := schema.NewKey(channel, name, file.Version, file.Attrs.Subdir, base)
		if err != nil {
			continue
		}
		counts[key] = max(file.NDownloads, 0)
	}
	return counts, nil
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

// getJSON fetches a URL and decodes its JSON body, retrying transient
// failures with exponential backoff. Not-found responses and malformed
// bodies are permanent failures.
func (s *AnacondaSourceImpl) getJSON(ctx context.Context, url string, out any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(fmt.Errorf("GET %s: %s", url, resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: %s", url, resp.Status)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("GET %s: %w", url, err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.retries)), ctx)
	return backoff.Retry(operation, policy)
}
