package store

import "strings"

// digestPrefix is the only digest algorithm the on-disk format uses.
// Blob filenames carry it with a dash (sha256-<hex>), manifest content
// with a colon (sha256:<hex>).
const digestPrefix = "sha256"

const digestHexLen = 64

// ParseDigest normalizes a digest-shaped token to its bare 64-char
// lowercase hex form. The optional "sha256-" or "sha256:" prefix is
// stripped. Returns ok=false if the remainder is not exactly 64 hex
// characters.
func ParseDigest(s string) (hex string, ok bool) {
	s = strings.TrimPrefix(s, digestPrefix+"-")
	s = strings.TrimPrefix(s, digestPrefix+":")
	if len(s) != digestHexLen {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", false
		}
	}
	return s, true
}

// IsDigest reports whether s matches the digest grammar.
func IsDigest(s string) bool {
	_, ok := ParseDigest(s)
	return ok
}
