package fuse

import (
	"context"
	"strings"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/systemshift/modelfs/internal/store"
)

// Tag refs contain slashes, which cannot appear in a filename, so
// directory entries use double underscores: "library/llama3:latest"
// shows up as "library__llama3:latest".
func tagFilename(tag string) string {
	return strings.ReplaceAll(tag, "/", "__")
}

func tagFromFilename(name string) string {
	return strings.ReplaceAll(name, "__", "/")
}

// ModelsDir lists every discovered tag as a symlink to its resolved
// blob. Listing and resolution both run against the live store.
type ModelsDir struct {
	fs.Inode
	resolver *store.Resolver
}

var _ = (fs.NodeLookuper)((*ModelsDir)(nil))
var _ = (fs.NodeReaddirer)((*ModelsDir)(nil))
var _ = (fs.NodeGetattrer)((*ModelsDir)(nil))

func (d *ModelsDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("models")
	return fs.OK
}

func (d *ModelsDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	tags := store.ListTags(d.resolver.Roots())
	entries := make([]fuse.DirEntry, len(tags))
	for i, tag := range tags {
		name := tagFilename(tag)
		entries[i] = fuse.DirEntry{
			Name: name,
			Mode: syscall.S_IFLNK,
			Ino:  stableIno("models/" + name),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *ModelsDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	tag := tagFromFilename(name)
	res, err := d.resolver.Resolve(tag)
	if err != nil {
		return nil, syscall.ENOENT
	}

	sym := &ModelSymlink{target: res.Path}
	child := d.NewInode(ctx, sym, fs.StableAttr{
		Mode: syscall.S_IFLNK,
		Ino:  stableIno("models/" + name),
	})
	return child, fs.OK
}

// ModelSymlink points at the resolved artifact's absolute path.
type ModelSymlink struct {
	fs.Inode
	target string
}

var _ = (fs.NodeReadlinker)((*ModelSymlink)(nil))
var _ = (fs.NodeGetattrer)((*ModelSymlink)(nil))

func (s *ModelSymlink) Readlink(ctx context.Context) ([]byte, syscall.Errno) {
	return []byte(s.target), fs.OK
}

func (s *ModelSymlink) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0777 | syscall.S_IFLNK
	out.Size = uint64(len(s.target))
	return fs.OK
}
