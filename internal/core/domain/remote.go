package domain

import (
	"net/url"
	"strings"
)

// RemoteCacheConfig addresses a remote artifact store.
type RemoteCacheConfig struct {
	URL   string
	Token string
	// Push gates uploads of successful local builds.
	Push bool
}

// Enabled reports whether a remote URL is configured.
func (c *RemoteCacheConfig) Enabled() bool {
	return c != nil && c.URL != ""
}

// ArtifactURL returns {url}/cache/{masterHash}.tar.gz.
func (c *RemoteCacheConfig) ArtifactURL(masterHash string) string {
	return strings.TrimRight(c.URL, "/") + "/cache/" + url.PathEscape(masterHash) + ".tar.gz"
}
