package store

import (
	"os"
	"path/filepath"
)

// PathEnv is the environment variable holding extra store roots,
// separated by the platform's path-list delimiter.
const PathEnv = "MODELFS_PATH"

// RootDiscovery enumerates candidate storage roots. A root is any
// existing directory expected to host blobs/ and manifests/ subtrees.
// Discovery runs fresh on every call: the filesystem can change
// between resolutions, so nothing is cached.
type RootDiscovery struct {
	env      string   // value of the path-list variable
	defaults []string // platform default candidates, in priority order
}

// NewRootDiscovery builds a discovery over an explicit environment
// value and default candidate list. Pass the output of DefaultRoots
// for standard behavior.
func NewRootDiscovery(env string, defaults []string) *RootDiscovery {
	return &RootDiscovery{env: env, defaults: defaults}
}

// DefaultRoots returns the platform default root candidates, in order:
// $OLLAMA_MODELS when set, the per-user ollama store, then the system
// locations. Candidates need not exist; Discover filters them.
func DefaultRoots() []string {
	var roots []string
	if v := os.Getenv("OLLAMA_MODELS"); v != "" {
		roots = append(roots, v)
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".ollama", "models"))
	}
	roots = append(roots,
		"/usr/share/ollama/.ollama/models",
		"/var/lib/ollama/models",
	)
	return roots
}

// Discover returns the existing roots, env-provided paths first, then
// defaults, deduplicated in first-seen order. Zero roots is not an
// error: downstream lookups simply find nothing.
func (d *RootDiscovery) Discover() []string {
	var candidates []string
	for _, p := range filepath.SplitList(d.env) {
		if p != "" {
			candidates = append(candidates, p)
		}
	}
	candidates = append(candidates, d.defaults...)

	seen := make(map[string]bool, len(candidates))
	var roots []string
	for _, p := range candidates {
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		if IsDir(p) {
			roots = append(roots, p)
		}
	}
	return roots
}
