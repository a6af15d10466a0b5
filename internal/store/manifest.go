package store

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Crawl bounds. Manifest trees are normally tiny (one file per tag)
// but the walk must stay cheap even on a pathological or misconfigured
// root, so both depth and total visited entries are capped.
const (
	crawlMaxDepth   = 8
	crawlMaxVisited = 2048

	// Pass 2 reads file content looking for digests; real manifests
	// are small JSON, so anything bigger is skipped unread.
	manifestMaxSize = 1 << 20
)

// digestPattern matches an embedded digest inside manifest content,
// with or without the algorithm prefix.
var digestPattern = regexp.MustCompile(`(?:sha256[:-])?[0-9a-f]{64}`)

// walkManifests lists the files under root/manifests in breadth-first
// order, bounded by crawlMaxDepth and crawlMaxVisited. Unreadable
// directories are skipped.
func walkManifests(root string) []string {
	type entry struct {
		path  string
		depth int
	}
	queue := []entry{{filepath.Join(root, "manifests"), 0}}
	visited := 0

	var files []string
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.depth > crawlMaxDepth {
			continue
		}
		children, err := os.ReadDir(e.path)
		if err != nil {
			continue
		}
		for _, child := range children {
			visited++
			if visited > crawlMaxVisited {
				return files
			}
			p := filepath.Join(e.path, child.Name())
			if child.IsDir() {
				queue = append(queue, entry{p, e.depth + 1})
			} else {
				files = append(files, p)
			}
		}
	}
	return files
}

// extractDigests pulls every digest-shaped token out of a manifest
// file, in content order. Oversized or unreadable files yield nothing.
func extractDigests(path string) []string {
	info, err := os.Stat(path)
	if err != nil || info.Size() > manifestMaxSize {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var digests []string
	for _, m := range digestPattern.FindAllString(string(data), -1) {
		if hex, ok := ParseDigest(m); ok {
			digests = append(digests, hex)
		}
	}
	return digests
}

// LocateByTag resolves a "namespace/name:tag" reference to a blob
// path by crawling each root's manifests subtree. Two passes per root:
// first the files whose name or path plausibly match the tag, then a
// brute-force digest scan of everything the bounded walk reached.
// Returns "" when no manifest leads to a valid blob.
func LocateByTag(tagRef string, roots []string) string {
	tag := ""
	if i := strings.LastIndex(tagRef, ":"); i >= 0 {
		tag = tagRef[i+1:]
	}

	for _, root := range roots {
		files := walkManifests(root)

		// Pass 1: likely matches by filename or full-ref substring.
		for _, f := range files {
			if filepath.Base(f) != tag && !strings.Contains(f, tagRef) {
				continue
			}
			for _, d := range extractDigests(f) {
				if p := LocateByDigest(d, roots); p != "" {
					return p
				}
			}
		}

		// Pass 2: every digest in every manifest, traversal order.
		for _, f := range files {
			for _, d := range extractDigests(f) {
				if p := LocateByDigest(d, roots); p != "" {
					return p
				}
			}
		}
	}
	return ""
}
