package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListTags enumerates the namespaced tags present under the roots'
// manifests subtrees, deduplicated and sorted. The on-disk layout is
// manifests/[host/]namespace/name/tag; a leading registry-host
// component is dropped when present so tags read as "ns/name:tag".
func ListTags(roots []string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, root := range roots {
		base := filepath.Join(root, "manifests")
		for _, f := range walkManifests(root) {
			rel, err := filepath.Rel(base, f)
			if err != nil {
				continue
			}
			parts := strings.Split(filepath.ToSlash(rel), "/")
			if len(parts) < 2 {
				continue
			}
			if len(parts) >= 4 {
				parts = parts[1:]
			}
			tag := strings.Join(parts[:len(parts)-1], "/") + ":" + parts[len(parts)-1]
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// ListBlobs returns the valid artifacts under the roots' blobs/
// subtrees, roots in discovery order, sorted within each root. When
// the same blob name appears under several roots the first root wins,
// matching LocateByDigest ordering.
func ListBlobs(roots []string) []string {
	seen := make(map[string]bool)
	var blobs []string
	for _, root := range roots {
		dir := filepath.Join(root, "blobs")
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			p := filepath.Join(dir, name)
			if seen[name] || !HasMagic(p) {
				continue
			}
			seen[name] = true
			blobs = append(blobs, p)
		}
	}
	return blobs
}
