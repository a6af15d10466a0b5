// Package fuse presents the resolver as a read-only filesystem:
// models/ holds one symlink per discovered tag, blobs/ links every
// valid artifact, and store.json reports the discovered roots. Nothing
// here is writable — the engine never mutates the store.
package fuse

import (
	"hash/fnv"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/systemshift/modelfs/internal/store"
)

// MountFS mounts the browse filesystem at mountpoint, backed by the
// resolver. The caller blocks on server.Wait() and stops with
// server.Unmount().
func MountFS(mountpoint string, resolver *store.Resolver) (*gofuse.Server, error) {
	root := &RootNode{resolver: resolver}

	opts := &fs.Options{
		MountOptions: gofuse.MountOptions{
			FsName:        "modelfs",
			Name:          "modelfs",
			DisableXAttrs: true,
		},
	}
	return fs.Mount(mountpoint, root, opts)
}

// stableIno derives a stable inode number from a path string.
func stableIno(path string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(path))
	return h.Sum64()
}
