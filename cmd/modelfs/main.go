package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/systemshift/modelfs/internal/config"
	modelfuse "github.com/systemshift/modelfs/internal/fuse"
	"github.com/systemshift/modelfs/internal/httpapi"
	"github.com/systemshift/modelfs/internal/store"
)

const usage = `usage: modelfs <command> [flags]

commands:
  resolve <ref>   resolve a model reference to an artifact path
  list            list tags discovered across all storage roots
  serve           run the HTTP resolution API
  mount <dir>     mount a read-only browse filesystem

flags:
`

func main() {
	var (
		asJSON bool
		verify bool
		roots  bool
		addr   string
	)
	flag.BoolVar(&asJSON, "json", false, "Print results as JSON")
	flag.BoolVar(&verify, "verify", false, "Compute the artifact's content digest (resolve)")
	flag.BoolVar(&roots, "roots", false, "Also print discovered storage roots (resolve)")
	flag.StringVar(&addr, "addr", "", "HTTP listen address (serve; overrides config)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("modelfs: %v", err)
	}

	defaults := append(append([]string{}, cfg.Roots...), store.DefaultRoots()...)
	resolver := store.NewResolver(store.NewRootDiscovery(os.Getenv(store.PathEnv), defaults))

	switch flag.Arg(0) {
	case "resolve":
		if flag.Arg(1) == "" {
			log.Fatal("modelfs: resolve requires a reference")
		}
		cmdResolve(resolver, flag.Arg(1), asJSON, verify, roots)
	case "list":
		cmdList(resolver, asJSON)
	case "serve":
		if addr == "" {
			addr = cfg.Addr
		}
		cmdServe(resolver, addr)
	case "mount":
		mountpoint := flag.Arg(1)
		if mountpoint == "" {
			mountpoint = cfg.Mountpoint
		}
		if mountpoint == "" {
			log.Fatal("modelfs: mount requires a mountpoint")
		}
		cmdMount(resolver, mountpoint)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func cmdResolve(resolver *store.Resolver, ref string, asJSON, verify, withRoots bool) {
	res, err := resolver.Resolve(ref)
	if err != nil {
		log.Fatalf("modelfs: %v", err)
	}

	if !asJSON {
		fmt.Println(res.Path)
		if verify {
			v, err := store.Verify(res.Path)
			if err != nil {
				log.Fatalf("modelfs: verify: %v", err)
			}
			fmt.Printf("sha256:%s\n%s\n", v.SHA256, v.CID)
		}
		return
	}

	out := map[string]any{
		"ref":      ref,
		"path":     res.Path,
		"strategy": res.Strategy,
	}
	if len(res.Chain) > 0 {
		out["chain"] = res.Chain
	}
	if len(res.Adapters) > 0 {
		out["adapters"] = res.Adapters
	}
	if withRoots {
		out["roots"] = resolver.Roots()
	}
	if verify {
		v, err := store.Verify(res.Path)
		if err != nil {
			log.Fatalf("modelfs: verify: %v", err)
		}
		out["sha256"] = v.SHA256
		out["cid"] = v.CID
		out["size"] = v.Size
	}
	printJSON(out)
}

func cmdList(resolver *store.Resolver, asJSON bool) {
	tags := store.ListTags(resolver.Roots())
	if asJSON {
		if tags == nil {
			tags = []string{}
		}
		printJSON(map[string]any{"models": tags})
		return
	}
	for _, tag := range tags {
		fmt.Println(tag)
	}
}

func cmdServe(resolver *store.Resolver, addr string) {
	server := httpapi.NewServer(resolver)
	log.Printf("modelfs: serving on %s", addr)
	if err := http.ListenAndServe(addr, server); err != nil {
		log.Fatalf("modelfs: serve: %v", err)
	}
}

func cmdMount(resolver *store.Resolver, mountpoint string) {
	if err := os.MkdirAll(mountpoint, 0755); err != nil {
		log.Fatalf("modelfs: create mountpoint: %v", err)
	}

	log.Printf("modelfs: mounting at %s", mountpoint)
	server, err := modelfuse.MountFS(mountpoint, resolver)
	if err != nil {
		log.Fatalf("modelfs: mount failed: %v", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		log.Println("modelfs: unmounting...")
		server.Unmount()
	}()

	log.Printf("modelfs: ready (pid %d)", os.Getpid())
	server.Wait()
	log.Println("modelfs: stopped")
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("modelfs: encode: %v", err)
	}
	fmt.Println(string(data))
}
