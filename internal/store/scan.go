package store

import (
	"os"
	"path/filepath"
	"time"
)

// newestValidIn returns the most recently modified GGUF artifact
// directly inside dir, or "" if there is none. Non-regular entries and
// files without the signature are ignored.
func newestValidIn(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTime time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if !HasMagic(p) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestTime) {
			best = p
			bestTime = info.ModTime()
		}
	}
	return best
}

// ScanNewest is the last-resort strategy: the newest valid artifact
// across every root's blobs/ subtree.
func ScanNewest(roots []string) string {
	var best string
	var bestTime time.Time
	for _, root := range roots {
		dir := filepath.Join(root, "blobs")
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			p := filepath.Join(dir, e.Name())
			if !HasMagic(p) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if best == "" || info.ModTime().After(bestTime) {
				best = p
				bestTime = info.ModTime()
			}
		}
	}
	return best
}
