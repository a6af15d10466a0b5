package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Modelfile directive keys the chain walker acts on. FROM is the
// primary indirection; ADAPTER values ride along into the result.
const (
	directiveFrom    = "FROM"
	directiveAdapter = "ADAPTER"
)

// maxHops bounds how many nested Modelfiles a single resolution will
// follow. There is no cycle detection by path: a loop shorter than the
// bound just burns hops until the bound trips.
const maxHops = 4

// Directives is a Modelfile's parsed content: directive key (upper-
// cased) to its values in file order.
type Directives map[string][]string

// First returns the first value recorded for key, or "".
func (d Directives) First(key string) string {
	if vs := d[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// IsModelfileName reports whether path is, by naming convention, a
// Modelfile: basename "Modelfile" (any case) or a ".modelfile" suffix.
func IsModelfileName(path string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(base, "Modelfile") ||
		strings.EqualFold(filepath.Ext(base), ".modelfile")
}

// ParseModelfile reads a directive file. Each line is KEY followed by
// whitespace and a value running to end of line; '#' starts a comment;
// keys are case-insensitive and upper-cased; repeated keys keep their
// values in file order. Lines that don't fit the grammar are skipped,
// not reported — a malformed directive is treated the same as an
// absent one.
func ParseModelfile(path string) (Directives, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open modelfile: %w", err)
	}
	defer f.Close()

	directives := make(Directives)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		key, value, ok := parseDirectiveLine(sc.Text())
		if !ok {
			continue
		}
		directives[key] = append(directives[key], value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read modelfile: %w", err)
	}
	return directives, nil
}

// parseDirectiveLine scans one line: comment strip, key token,
// whitespace, value to end of line.
func parseDirectiveLine(line string) (key, value string, ok bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}

	end := 0
	for end < len(line) && !isSpace(line[end]) {
		if !isKeyChar(line[end]) {
			return "", "", false
		}
		end++
	}
	key = line[:end]
	value = strings.TrimSpace(line[end:])
	if key == "" || value == "" {
		return "", "", false
	}
	return strings.ToUpper(key), value, true
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}

// Hop is one link in a Modelfile chain walk.
type Hop struct {
	File       string     `json:"file"`
	Token      string     `json:"token,omitempty"`
	Directives Directives `json:"directives,omitempty"`
}

// WalkChain follows a Modelfile's FROM chain to a concrete artifact,
// bounded to maxHops. At each hop the FROM token is tried, in order,
// as: a direct or file-relative artifact path, a digest, a namespaced
// tag, a nested Modelfile (next hop), and finally the newest valid
// artifact in the current file's directory. ADAPTER values from every
// visited hop accumulate into the result no matter which hop resolves.
// Returns nil when the chain exhausts without an artifact.
func WalkChain(path string, roots []string) *Resolved {
	var chain []Hop
	var adapters []string

	current := path
	for hop := 0; hop < maxHops; hop++ {
		directives, err := ParseModelfile(current)
		if err != nil {
			return nil
		}
		adapters = append(adapters, directives[directiveAdapter]...)
		token := directives.First(directiveFrom)
		chain = append(chain, Hop{File: current, Token: token, Directives: directives})

		done := func(p string, s Strategy) *Resolved {
			return &Resolved{Path: p, Strategy: s, Chain: chain, Adapters: adapters}
		}
		dir := filepath.Dir(current)

		if token != "" {
			cand := token
			if !filepath.IsAbs(cand) {
				cand = filepath.Join(dir, token)
			}
			if HasMagic(cand) {
				return done(cand, StrategyModelfile)
			}
			if IsDigest(token) {
				if p := LocateByDigest(token, roots); p != "" {
					return done(p, StrategyModelfileBlob)
				}
			} else if strings.Contains(token, ":") {
				if p := LocateByTag(token, roots); p != "" {
					return done(p, StrategyModelfileManifest)
				}
			} else if IsFile(cand) && IsModelfileName(cand) {
				current = cand
				continue
			}
		}

		if p := newestValidIn(dir); p != "" {
			return done(p, StrategyModelfileDir)
		}
		return nil
	}
	return nil
}
