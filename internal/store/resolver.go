// Package store resolves loose references to locally stored model
// artifacts. A reference may be a bare file path, a directory, a
// Modelfile, a content digest, or a namespaced tag; resolution tries a
// fixed strategy order against the discovered storage roots and
// returns the first verified GGUF artifact, together with how it was
// found. The engine is read-only: it never fetches, never mutates the
// store, and keeps no state between calls.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Strategy identifies which resolution path produced a result. The
// set is closed; the Modelfile-prefixed values additionally record
// what the final FROM token turned out to be.
type Strategy string

const (
	StrategyDirect            Strategy = "direct"
	StrategyDir               Strategy = "dir"
	StrategyModelfile         Strategy = "modelfile"
	StrategyModelfileBlob     Strategy = "modelfile/blob"
	StrategyModelfileManifest Strategy = "modelfile/manifest"
	StrategyModelfileDir      Strategy = "modelfile/dir"
	StrategyBlob              Strategy = "blob"
	StrategyManifest          Strategy = "manifest"
	StrategyFallback          Strategy = "fallback"
)

// Resolved is the engine's sole output: one artifact path plus the
// provenance of how a reference reached it. Chain and Adapters are
// populated only when resolution went through a Modelfile.
type Resolved struct {
	Path     string   `json:"path"`
	Strategy Strategy `json:"strategy"`
	Chain    []Hop    `json:"chain,omitempty"`
	Adapters []string `json:"adapters,omitempty"`
}

// ErrEmptyReference is returned for an empty or blank reference; no
// strategy is attempted.
var ErrEmptyReference = errors.New("empty model reference")

// NotFoundError means every resolution strategy was exhausted.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model reference not found: %s", e.Ref)
}

// Resolver dispatches a reference through the strategy chain. Safe
// for concurrent use: each Resolve call rediscovers roots and shares
// nothing but the filesystem.
type Resolver struct {
	discovery *RootDiscovery
}

// NewResolver builds a resolver over the given root discovery.
func NewResolver(d *RootDiscovery) *Resolver {
	return &Resolver{discovery: d}
}

// NewDefaultResolver builds a resolver over MODELFS_PATH and the
// platform default roots.
func NewDefaultResolver() *Resolver {
	return NewResolver(NewRootDiscovery(os.Getenv(PathEnv), DefaultRoots()))
}

// Roots returns the storage roots as discovered right now.
func (r *Resolver) Roots() []string {
	return r.discovery.Discover()
}

// Resolve maps a reference to a verified artifact. Strategy order:
// direct absolute path, directory, Modelfile by name, digest, tag,
// global fallback scan; the first hit wins. Every result path is
// absolute. Failure modes are ErrEmptyReference and NotFoundError;
// everything else (unreadable files, bad directive lines, permission
// errors) is absorbed inside the strategies as "not found here".
func (r *Resolver) Resolve(ref string) (*Resolved, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyReference
	}
	roots := r.discovery.Discover()

	if filepath.IsAbs(ref) && HasMagic(ref) {
		return finish(&Resolved{Path: ref, Strategy: StrategyDirect})
	}

	if IsDir(ref) {
		if res := resolveDir(ref, roots); res != nil {
			return finish(res)
		}
	}

	if IsFile(ref) && IsModelfileName(ref) {
		if res := WalkChain(ref, roots); res != nil {
			return finish(res)
		}
	}

	if IsDigest(ref) {
		if p := LocateByDigest(ref, roots); p != "" {
			return finish(&Resolved{Path: p, Strategy: StrategyBlob})
		}
	}

	if strings.Contains(ref, ":") {
		if p := LocateByTag(ref, roots); p != "" {
			return finish(&Resolved{Path: p, Strategy: StrategyManifest})
		}
	}

	if p := ScanNewest(roots); p != "" {
		return finish(&Resolved{Path: p, Strategy: StrategyFallback})
	}

	return nil, &NotFoundError{Ref: ref}
}

// resolveDir handles a directory reference: a conventionally named
// Modelfile inside wins and is chain-walked; otherwise the newest
// valid artifact in the directory.
func resolveDir(dir string, roots []string) *Resolved {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if !IsModelfileName(p) {
			continue
		}
		if res := WalkChain(p, roots); res != nil {
			return res
		}
	}
	if p := newestValidIn(dir); p != "" {
		return &Resolved{Path: p, Strategy: StrategyDir}
	}
	return nil
}

// finish absolutizes the result path. Abs only fails when the working
// directory is gone; the relative path is kept in that case.
func finish(res *Resolved) (*Resolved, error) {
	if abs, err := filepath.Abs(res.Path); err == nil {
		res.Path = abs
	}
	return res, nil
}
