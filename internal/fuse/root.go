package fuse

import (
	"context"
	"encoding/json"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/systemshift/modelfs/internal/store"
)

// RootNode is the mountpoint directory. Contains "models/", "blobs/",
// and "store.json".
type RootNode struct {
	fs.Inode
	resolver *store.Resolver
}

var _ = (fs.NodeOnAdder)((*RootNode)(nil))
var _ = (fs.NodeGetattrer)((*RootNode)(nil))

func (r *RootNode) OnAdd(ctx context.Context) {
	modelsDir := &ModelsDir{resolver: r.resolver}
	modelsInode := r.NewPersistentInode(ctx, modelsDir, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("models"),
	})
	r.AddChild("models", modelsInode, true)

	blobsDir := &BlobsDir{resolver: r.resolver}
	blobsInode := r.NewPersistentInode(ctx, blobsDir, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("blobs"),
	})
	r.AddChild("blobs", blobsInode, true)

	storeFile := &StoreFile{resolver: r.resolver}
	storeInode := r.NewPersistentInode(ctx, storeFile, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  stableIno("store.json"),
	})
	r.AddChild("store.json", storeInode, true)
}

func (r *RootNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("/")
	return fs.OK
}

// StoreFile renders the currently discovered roots as JSON. Content is
// rebuilt on every open so it tracks the live filesystem.
type StoreFile struct {
	fs.Inode
	resolver *store.Resolver
}

var _ = (fs.NodeGetattrer)((*StoreFile)(nil))
var _ = (fs.NodeOpener)((*StoreFile)(nil))
var _ = (fs.NodeReader)((*StoreFile)(nil))

func (f *StoreFile) content() []byte {
	roots := f.resolver.Roots()
	if roots == nil {
		roots = []string{}
	}
	data, _ := json.MarshalIndent(map[string]any{"roots": roots}, "", "  ")
	return append(data, '\n')
}

func (f *StoreFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0444
	out.Size = uint64(len(f.content()))
	out.Ino = stableIno("store.json")
	return fs.OK
}

func (f *StoreFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_DIRECT_IO, fs.OK
}

func (f *StoreFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data := f.content()
	if off >= int64(len(data)) {
		return fuse.ReadResultData(nil), fs.OK
	}
	return fuse.ReadResultData(data[off:]), fs.OK
}
