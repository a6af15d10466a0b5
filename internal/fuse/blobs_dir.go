package fuse

import (
	"context"
	"path/filepath"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/systemshift/modelfs/internal/store"
)

// BlobsDir links every valid blob across all roots under its
// content-addressed filename (sha256-<hex> or bare hex).
type BlobsDir struct {
	fs.Inode
	resolver *store.Resolver
}

var _ = (fs.NodeLookuper)((*BlobsDir)(nil))
var _ = (fs.NodeReaddirer)((*BlobsDir)(nil))
var _ = (fs.NodeGetattrer)((*BlobsDir)(nil))

func (d *BlobsDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("blobs")
	return fs.OK
}

func (d *BlobsDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	blobs := store.ListBlobs(d.resolver.Roots())
	entries := make([]fuse.DirEntry, len(blobs))
	for i, p := range blobs {
		name := filepath.Base(p)
		entries[i] = fuse.DirEntry{
			Name: name,
			Mode: syscall.S_IFLNK,
			Ino:  stableIno("blobs/" + name),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *BlobsDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	for _, p := range store.ListBlobs(d.resolver.Roots()) {
		if filepath.Base(p) != name {
			continue
		}
		sym := &ModelSymlink{target: p}
		child := d.NewInode(ctx, sym, fs.StableAttr{
			Mode: syscall.S_IFLNK,
			Ino:  stableIno("blobs/" + name),
		})
		return child, fs.OK
	}
	return nil, syscall.ENOENT
}
