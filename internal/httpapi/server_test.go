package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/systemshift/modelfs/internal/store"
)

const testDigest = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"blobs", "manifests"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	resolver := store.NewResolver(store.NewRootDiscovery(root, nil))
	return NewServer(resolver), root
}

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

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestResolve_MissingRef(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/api/resolve")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestResolve_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/api/resolve?ref=no-such-model")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["ref"] != "no-such-model" {
		t.Errorf("ref echo = %q, want %q", body["ref"], "no-such-model")
	}
}

func TestResolve_Digest(t *testing.T) {
	s, root := newTestServer(t)
	blob := writeArtifact(t, filepath.Join(root, "blobs", "sha256-"+testDigest))

	w := get(t, s, "/api/resolve?ref="+testDigest)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body struct {
		Path     string `json:"path"`
		Strategy string `json:"strategy"`
		Valid    bool   `json:"valid"`
		Size     int64  `json:"size"`
	}
	decode(t, w, &body)
	if body.Path != blob {
		t.Errorf("path = %q, want %q", body.Path, blob)
	}
	if body.Strategy != string(store.StrategyBlob) {
		t.Errorf("strategy = %q, want %q", body.Strategy, store.StrategyBlob)
	}
	if !body.Valid {
		t.Error("valid = false, want true")
	}
	if body.Size == 0 {
		t.Error("size = 0, want artifact size")
	}
}

func TestResolve_WithRootsAndDigest(t *testing.T) {
	s, root := newTestServer(t)
	blob := writeArtifact(t, filepath.Join(root, "blobs", "sha256-"+testDigest))

	w := get(t, s, "/api/resolve?ref="+testDigest+"&roots=1&digest=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		Roots  []string `json:"roots"`
		SHA256 string   `json:"sha256"`
		CID    string   `json:"cid"`
	}
	decode(t, w, &body)

	if len(body.Roots) != 1 || body.Roots[0] != filepath.Clean(root) {
		t.Errorf("roots = %v, want [%q]", body.Roots, root)
	}

	data, err := os.ReadFile(blob)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(data)
	if body.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("sha256 = %q, want %q", body.SHA256, hex.EncodeToString(sum[:]))
	}
	if body.CID == "" {
		t.Error("cid is empty, want CIDv1 string")
	}
}

func TestResolve_ModelfileChainInResponse(t *testing.T) {
	s, _ := newTestServer(t)
	dir := t.TempDir()
	writeArtifact(t, filepath.Join(dir, "model.gguf"))
	mf := filepath.Join(dir, "Modelfile")
	content := "FROM ./model.gguf\nADAPTER ./lora.bin\n"
	if err := os.WriteFile(mf, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	w := get(t, s, "/api/resolve?ref="+url.QueryEscape(mf))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body struct {
		Strategy string `json:"strategy"`
		Chain    []struct {
			File  string `json:"file"`
			Token string `json:"token"`
		} `json:"chain"`
		Adapters []string `json:"adapters"`
	}
	decode(t, w, &body)
	if body.Strategy != string(store.StrategyModelfile) {
		t.Errorf("strategy = %q, want %q", body.Strategy, store.StrategyModelfile)
	}
	if len(body.Chain) != 1 || body.Chain[0].File != mf {
		t.Errorf("chain = %+v, want one hop through %q", body.Chain, mf)
	}
	if len(body.Adapters) != 1 || body.Adapters[0] != "./lora.bin" {
		t.Errorf("adapters = %v, want [./lora.bin]", body.Adapters)
	}
}

func TestModels(t *testing.T) {
	s, root := newTestServer(t)
	manifest := filepath.Join(root, "manifests", "registry.local", "library", "tiny", "latest")
	if err := os.MkdirAll(filepath.Dir(manifest), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(manifest, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	w := get(t, s, "/api/models")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		Models []string `json:"models"`
	}
	decode(t, w, &body)
	if len(body.Models) != 1 || body.Models[0] != "library/tiny:latest" {
		t.Errorf("models = %v, want [library/tiny:latest]", body.Models)
	}
}

func TestModels_EmptyIsList(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/api/models")
	if !strings.Contains(w.Body.String(), `"models":[]`) {
		t.Errorf("empty store should render an empty list, got %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
