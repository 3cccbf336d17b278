// Package deps fetches declared project dependencies into the project's .forge/deps directory.
package deps

import (
	"context"
	"encoding/xml"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"resty.dev/v3"
)

const (
	// MavenCentral is the default Maven repository.
	MavenCentral = "https://repo1.maven.org/maven2"

	// MaxTransitiveDepth bounds how far POM dependencies are followed from a declared one.
	MaxTransitiveDepth = 5

	defaultTimeout = 2 * time.Minute
	maxJarSize     = 512 << 20
)

// Coordinate identifies one Maven artifact.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// ParseCoordinate parses a group:artifact key with its pinned version.
func ParseCoordinate(key, version string) (Coordinate, error) {
	group, artifact, ok := strings.Cut(key, ":")
	if !ok || group == "" || artifact == "" || strings.Contains(artifact, ":") || version == "" {
		return Coordinate{}, zerr.With(zerr.Wrap(domain.ErrInvalidCoordinate, "'"+key+"'"), "dependency", key)
	}
	return Coordinate{Group: group, Artifact: artifact, Version: version}, nil
}

// String returns group:artifact:version.
func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// FileName returns the artifact file name with the given extension.
func (c Coordinate) FileName(ext string) string {
	return c.Artifact + "-" + c.Version + "." + ext
}

// Path returns the repository-relative path of the artifact file with the given extension.
func (c Coordinate) Path(ext string) string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Artifact + "/" + c.Version + "/" + c.FileName(ext)
}

// MavenResolver implements ports.DependencyResolver against a Maven-layout HTTP repository.
// Only pinned versions are supported; transitive compile-scope dependencies are read
// from each artifact's POM.
type MavenResolver struct {
	http       *resty.Client
	repository string
	logger     ports.Logger
}

// MavenOption configures a MavenResolver.
type MavenOption func(*MavenResolver)

// WithRepository points the resolver at another Maven repository.
func WithRepository(url string) MavenOption {
	return func(r *MavenResolver) {
		r.repository = strings.TrimRight(url, "/")
	}
}

// NewMavenResolver creates a resolver for Maven Central.
func NewMavenResolver(logger ports.Logger, opts ...MavenOption) *MavenResolver {
	r := &MavenResolver{
		http: resty.New().
			SetTimeout(defaultTimeout).
			SetResponseBodyLimit(maxJarSize).
			SetHeader("User-Agent", "forge"),
		repository: MavenCentral,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close releases idle connections.
func (r *MavenResolver) Close() error {
	return r.http.Close()
}

type pending struct {
	coord Coordinate
	depth int
}

type visitKey struct {
	dir   string
	coord Coordinate
}

// Resolve downloads every declared artifact and its transitive compile dependencies
// into dir. Declared dependencies are visited in name order, then breadth first.
func (r *MavenResolver) Resolve(ctx context.Context, deps map[string]string, dir string) ([]string, error) {
	queue := make([]pending, 0, len(deps))
	for _, key := range slices.Sorted(maps.Keys(deps)) {
		coord, err := ParseCoordinate(key, deps[key])
		if err != nil {
			return nil, err
		}
		queue = append(queue, pending{coord: coord})
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, err.Error()), "path", dir)
	}

	r.logger.Info(fmt.Sprintf("resolving %d dependencies from %s", len(queue), r.repository))

	visited := make(map[visitKey]struct{})
	var paths []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if next.depth > MaxTransitiveDepth {
			continue
		}
		key := visitKey{dir: dir, coord: next.coord}
		if _, seen := visited[key]; seen {
			continue
		}
		visited[key] = struct{}{}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, err := r.fetchJar(ctx, next.coord, dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)

		for _, dep := range r.transitive(ctx, next.coord) {
			queue = append(queue, pending{coord: dep, depth: next.depth + 1})
		}
	}

	r.logger.Info(fmt.Sprintf("resolved %d artifacts including transitive dependencies", len(paths)))
	return paths, nil
}

// fetchJar downloads the artifact unless dir already holds it.
func (r *MavenResolver) fetchJar(ctx context.Context, coord Coordinate, dir string) (string, error) {
	path := filepath.Join(dir, coord.FileName("jar"))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	url := r.repository + "/" + coord.Path("jar")
	resp, err := r.http.R().SetContext(ctx).Get(url)
	if err != nil {
		err = zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, err.Error()), "dependency", coord.String())
		return "", zerr.With(err, "url", url)
	}
	if !resp.IsSuccess() {
		err := zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, coord.String()), "url", url)
		return "", zerr.With(err, "status", resp.StatusCode())
	}

	// Write next to the target so an interrupted download never looks complete.
	tmp := path + ".part"
	if err := os.WriteFile(tmp, resp.Bytes(), domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, err.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrDependencyResolutionFailed, err.Error()), "path", path)
	}
	r.logger.Info("downloaded " + coord.String())
	return path, nil
}

// transitive returns the compile dependencies listed in coord's POM.
// A missing or unreadable POM means no transitive dependencies.
func (r *MavenResolver) transitive(ctx context.Context, coord Coordinate) []Coordinate {
	url := r.repository + "/" + coord.Path("pom")
	resp, err := r.http.R().SetContext(ctx).Get(url)
	if err != nil || !resp.IsSuccess() {
		return nil
	}

	deps, err := ParsePOM(resp.Bytes())
	if err != nil {
		r.logger.Warn(fmt.Sprintf("ignoring unreadable POM of %s: %v", coord, err))
		return nil
	}
	return deps
}

type pomProject struct {
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

// ParsePOM returns the direct dependencies a consumer of the POM needs at compile time.
// Entries of dependencyManagement, non-compile scopes, optional dependencies and
// versions given through properties are skipped.
func ParsePOM(data []byte) ([]Coordinate, error) {
	var project pomProject
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, err
	}

	var deps []Coordinate
	for _, d := range project.Dependencies {
		scope := strings.TrimSpace(d.Scope)
		if scope != "" && scope != "compile" {
			continue
		}
		if strings.TrimSpace(d.Optional) == "true" {
			continue
		}
		c := Coordinate{
			Group:    strings.TrimSpace(d.GroupID),
			Artifact: strings.TrimSpace(d.ArtifactID),
			Version:  strings.TrimSpace(d.Version),
		}
		if c.Group == "" || c.Artifact == "" || c.Version == "" || strings.HasPrefix(c.Version, "$") {
			continue
		}
		deps = append(deps, c)
	}
	return deps, nil
}
