package maven

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/integrations"
)

// DefaultRepositoryURL is the repository manifests are fetched from when
// none is configured.
const DefaultRepositoryURL = "https://repository.jboss.org/nexus/content/repositories/public/"

// Client downloads POM manifests from a repository using the standard
// Maven directory layout.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a repository client rooted at baseURL. An empty
// baseURL uses [DefaultRepositoryURL].
func NewClient(baseURL string, opts integrations.Options) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultRepositoryURL
	}
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		Client:  integrations.NewClient(opts),
		baseURL: baseURL,
	}, nil
}

// BaseURL returns the repository root, always ending in "/".
func (c *Client) BaseURL() string { return c.baseURL }

// POMURL returns the manifest location for a coordinate:
// base/<group with dots as slashes>/<artifact>/<version>/<artifact>-<version>.pom
func (c *Client) POMURL(groupID, artifactID, version string) string {
	return c.baseURL + POMPath(groupID, artifactID, version)
}

// POMPath returns the repository-relative manifest path for a coordinate.
func POMPath(groupID, artifactID, version string) string {
	return fmt.Sprintf("%s/%s/%s/%s-%s.pom",
		strings.ReplaceAll(groupID, ".", "/"),
		url.PathEscape(artifactID),
		url.PathEscape(version),
		url.PathEscape(artifactID),
		url.PathEscape(version))
}

// FetchPOM downloads the raw manifest for a coordinate. A missing manifest
// yields [integrations.ErrNotFound].
func (c *Client) FetchPOM(ctx context.Context, groupID, artifactID, version string) ([]byte, error) {
	return c.GetBytes(ctx, c.POMURL(groupID, artifactID, version))
}
