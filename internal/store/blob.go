package store

import "path/filepath"

// blobCandidates returns the paths a digest may live at under one
// root, in lookup order: the blobs/ subtree first, bare hex before the
// prefixed form, then the root itself. The order is part of the
// resolution contract — it must stay stable so repeated resolutions
// against the same tree pick the same file.
func blobCandidates(root, hex string) []string {
	prefixed := digestPrefix + "-" + hex
	return []string{
		filepath.Join(root, "blobs", hex),
		filepath.Join(root, "blobs", prefixed),
		filepath.Join(root, hex),
		filepath.Join(root, prefixed),
	}
}

// LocateByDigest finds the blob for a digest across roots, trying
// roots in discovery order and candidate forms in blobCandidates
// order. A candidate counts only if it carries the GGUF signature; no
// content hashing happens here (see Verify for the explicit check).
// Returns "" when no root has the blob.
func LocateByDigest(digest string, roots []string) string {
	hex, ok := ParseDigest(digest)
	if !ok {
		return ""
	}
	for _, root := range roots {
		for _, cand := range blobCandidates(root, hex) {
			if HasMagic(cand) {
				return cand
			}
		}
	}
	return ""
}
