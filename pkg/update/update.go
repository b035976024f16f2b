package update

import (
	"context"
	"fmt"

	"github.com/google/go-github/v56/github"
	goversion "github.com/hashicorp/go-version"
)

// Status classifies the running version against the latest release.
type Status int

const (
	// UpToDate means the running version matches the latest release.
	UpToDate Status = iota
	// Outdated means a newer release is available.
	Outdated
	// Ahead means the running version is newer than the latest release,
	// which happens on development builds.
	Ahead
)

// Release describes the latest published release of the project.
type Release struct {
	Version string
	URL     string
}

// Latest fetches the latest release of the given GitHub repository.
// Returns a non-nil error in case of failure.
func Latest(ctx context.Context, client *github.Client, owner, repo string) (*Release, error) {
	rel, _, err := client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("can't fetch the latest release of %s/%s: %w", owner, repo, err)
	}
	return &Release{
		Version: rel.GetTagName(),
		URL:     rel.GetHTMLURL(),
	}, nil
}

// Compare classifies the current version against the latest released one.
// Returns a non-nil error when either version can't be parsed.
func Compare(current, latest string) (Status, error) {
	cur, err := goversion.NewVersion(current)
	if err != nil {
		return UpToDate, fmt.Errorf("can't parse current version %q: %w", current, err)
	}
	rel, err := goversion.NewVersion(latest)
	if err != nil {
		return UpToDate, fmt.Errorf("can't parse latest version %q: %w", latest, err)
	}
	switch {
	case cur.LessThan(rel):
		return Outdated, nil
	case cur.GreaterThan(rel):
		return Ahead, nil
	default:
		return UpToDate, nil
	}
}
