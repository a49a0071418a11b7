package deck

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/spacedeck/internal/gitsource"
)

// Sync resolves configured deck sources into local roots. Local
// directories pass through untouched; git URLs are cloned or pulled
// into cacheDir first. A source that fails to sync is logged and
// skipped so one bad remote does not take out the rest.
func Sync(cacheDir string, sources []string) ([]string, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating deck cache dir: %w", err)
	}

	var roots []string
	for _, source := range sources {
		if !IsGitURL(source) {
			roots = append(roots, source)
			continue
		}

		localPath, err := gitURLToLocalPath(cacheDir, source)
		if err != nil {
			slog.Warn("skipping deck source with unusable URL", "url", source, "error", err)
			continue
		}
		if err := gitsource.Sync(source, localPath); err != nil {
			slog.Warn("skipping deck source that failed to sync", "url", source, "error", err)
			continue
		}
		roots = append(roots, localPath)
	}
	return roots, nil
}

// IsGitURL reports whether a configured source names a git remote
// rather than a local directory.
func IsGitURL(s string) bool {
	return strings.HasSuffix(s, ".git") ||
		strings.HasPrefix(s, "git@") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "http://")
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-like syntax: git@host:owner/repo.git
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
