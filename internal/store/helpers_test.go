package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeArtifact creates a file carrying the GGUF signature, creating
// parent directories as needed.
func writeArtifact(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("GGUF\x03\x00\x00\x00payload"), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

// writeFile creates an arbitrary file with parents.
func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

// newTestRoot creates a storage root with empty blobs/ and manifests/.
func newTestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"blobs", "manifests"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	return root
}

// touch sets a file's modification time, for newest-first assertions.
func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

// resolverFor builds a resolver whose only roots are the given paths.
func resolverFor(roots ...string) *Resolver {
	env := ""
	for i, r := range roots {
		if i > 0 {
			env += string(os.PathListSeparator)
		}
		env += r
	}
	return NewResolver(NewRootDiscovery(env, nil))
}

const testDigest = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
