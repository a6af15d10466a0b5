// Package httpapi exposes the resolver over a small read-only JSON
// API. It contains no resolution logic: requests map onto one
// Resolve/ListTags call and errors map onto status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/systemshift/modelfs/internal/store"
)

// Server wraps a resolver as an http.Handler.
type Server struct {
	resolver *store.Resolver
	mux      *http.ServeMux
}

// NewServer builds the handler tree over the given resolver.
func NewServer(r *store.Resolver) *Server {
	s := &Server{resolver: r, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/resolve", getOnly(s.handleResolve))
	s.mux.HandleFunc("/api/models", getOnly(s.handleModels))
	s.mux.HandleFunc("/health", getOnly(s.handleHealth))
	return s
}

// getOnly restricts a handler to GET requests; the Go toolchain here
// predates method patterns in ServeMux registrations.
func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// resolveResponse is the JSON descriptor for a resolved artifact.
type resolveResponse struct {
	Ref      string         `json:"ref"`
	Path     string         `json:"path"`
	Size     int64          `json:"size"`
	ModTime  time.Time      `json:"mod_time"`
	Valid    bool           `json:"valid"`
	Strategy store.Strategy `json:"strategy"`
	Chain    []store.Hop    `json:"chain,omitempty"`
	Adapters []string       `json:"adapters,omitempty"`
	Roots    []string       `json:"roots,omitempty"`
	SHA256   string         `json:"sha256,omitempty"`
	CID      string         `json:"cid,omitempty"`
}

// handleResolve is GET /api/resolve?ref=R[&roots=1][&digest=1].
// Missing ref → 400; exhausted strategies → 404 with the ref echoed;
// digest=1 opts into the full content hash, which can take a while on
// large artifacts.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := q.Get("ref")

	res, err := s.resolver.Resolve(ref)
	if err != nil {
		var nf *store.NotFoundError
		switch {
		case errors.Is(err, store.ErrEmptyReference):
			writeError(w, http.StatusBadRequest, "missing ref parameter", ref)
		case errors.As(err, &nf):
			writeError(w, http.StatusNotFound, "not found", nf.Ref)
		default:
			writeError(w, http.StatusInternalServerError, err.Error(), ref)
		}
		return
	}

	resp := resolveResponse{
		Ref:      ref,
		Path:     res.Path,
		Strategy: res.Strategy,
		Chain:    res.Chain,
		Adapters: res.Adapters,
	}
	if info, err := os.Stat(res.Path); err == nil {
		resp.Size = info.Size()
		resp.ModTime = info.ModTime().UTC()
	}
	resp.Valid = store.HasMagic(res.Path)

	if q.Get("roots") == "1" {
		resp.Roots = s.resolver.Roots()
	}
	if q.Get("digest") == "1" {
		v, err := store.Verify(res.Path)
		if err != nil {
			log.Printf("modelfs: verify %s: %v", res.Path, err)
		} else {
			resp.SHA256 = v.SHA256
			resp.CID = v.CID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleModels is GET /api/models: the tags visible across all roots.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	tags := store.ListTags(s.resolver.Roots())
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": tags})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("modelfs: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, ref string) {
	writeJSON(w, status, map[string]string{"error": msg, "ref": ref})
}
