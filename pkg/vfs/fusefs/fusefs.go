// Package fusefs exposes a loaded vfs.Tree as a read-only FUSE filesystem.
//
// Folders become directories. Files with inline content read as that
// content; files that only carry a URL (PDFs, images, links) read as the URL.
package fusefs

import (
	"context"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"webdesk/pkg/vfs"
)

// Options control attributes reported to the kernel.
type Options struct {
	// StartTime is used for all timestamps. If zero, time.Now() is used.
	StartTime time.Time
	// CacheTimeout sets entry and attr timeouts. The tree never changes once
	// mounted, so a long timeout is safe.
	CacheTimeout time.Duration
}

func (o *Options) startTime() time.Time {
	if o == nil || o.StartTime.IsZero() {
		return time.Now()
	}
	return o.StartTime
}

func (o *Options) cacheTimeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.CacheTimeout
}

// NewRoot returns the FUSE root for tree.
func NewRoot(tree *vfs.Tree, opts *Options) fs.InodeEmbedder {
	if opts == nil {
		opts = &Options{}
	}
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	return &folderNode{folder: tree.Root(), opts: opts}
}

// Mount mounts tree read-only at dir. The caller waits on and unmounts the
// returned server.
func Mount(dir string, tree *vfs.Tree, opts *Options) (*fuse.Server, error) {
	root := NewRoot(tree, opts)
	timeout := opts.cacheTimeout()
	return fs.Mount(dir, root, &fs.Options{
		EntryTimeout: &timeout,
		AttrTimeout:  &timeout,
		MountOptions: fuse.MountOptions{
			FsName:  "webdesk",
			Name:    "webdesk",
			Options: []string{"ro"},
		},
	})
}

func newNode(n vfs.Node, opts *Options) fs.InodeEmbedder {
	switch n := n.(type) {
	case *vfs.Folder:
		return &folderNode{folder: n, opts: opts}
	case *vfs.File:
		return &fileNode{body: fileBody(n), opts: opts}
	}
	return nil
}

func fileBody(f *vfs.File) []byte {
	if f.Content() != "" {
		return []byte(f.Content())
	}
	if f.URL() != "" {
		return []byte(f.URL() + "\n")
	}
	return nil
}

func nodeMode(n vfs.Node) uint32 {
	if n.Kind() == vfs.KindFolder {
		return fuse.S_IFDIR
	}
	return fuse.S_IFREG
}

func setTimestamps(attr *fuse.Attr, t time.Time) {
	attr.Atime = uint64(t.Unix())
	attr.Atimensec = uint32(t.Nanosecond())
	attr.Mtime = uint64(t.Unix())
	attr.Mtimensec = uint32(t.Nanosecond())
	attr.Ctime = uint64(t.Unix())
	attr.Ctimensec = uint32(t.Nanosecond())
}

type folderNode struct {
	fs.Inode
	folder *vfs.Folder
	opts   *Options
}

var _ = (fs.NodeLookuper)((*folderNode)(nil))
var _ = (fs.NodeReaddirer)((*folderNode)(nil))
var _ = (fs.NodeGetattrer)((*folderNode)(nil))

func (n *folderNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	child, ok := n.folder.Child(name)
	if !ok {
		return nil, syscall.ENOENT
	}

	embedder := newNode(child, n.opts)
	if f, ok := embedder.(*fileNode); ok {
		out.Attr.Size = uint64(len(f.body))
	}
	if timeout := n.opts.cacheTimeout(); timeout > 0 {
		out.SetEntryTimeout(timeout)
		out.SetAttrTimeout(timeout)
	}
	out.Attr.Mode = nodeMode(child) | perm(child)
	setTimestamps(&out.Attr, n.opts.startTime())
	return n.NewInode(ctx, embedder, fs.StableAttr{Mode: nodeMode(child)}), 0
}

func (n *folderNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	children := n.folder.Children()
	entries := make([]fuse.DirEntry, 0, len(children))
	for _, c := range children {
		entries = append(entries, fuse.DirEntry{Name: c.Name(), Mode: nodeMode(c)})
	}
	return fs.NewListDirStream(entries), 0
}

func (n *folderNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFDIR | 0555
	setTimestamps(&out.Attr, n.opts.startTime())
	if timeout := n.opts.cacheTimeout(); timeout > 0 {
		out.SetTimeout(timeout)
	}
	return 0
}

type fileNode struct {
	fs.Inode
	body []byte
	opts *Options
}

var _ = (fs.NodeOpener)((*fileNode)(nil))
var _ = (fs.NodeReader)((*fileNode)(nil))
var _ = (fs.NodeGetattrer)((*fileNode)(nil))

func (n *fileNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *fileNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return fuse.ReadResultData(readAt(n.body, dest, off)), 0
}

func (n *fileNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFREG | 0444
	out.Size = uint64(len(n.body))
	setTimestamps(&out.Attr, n.opts.startTime())
	if timeout := n.opts.cacheTimeout(); timeout > 0 {
		out.SetTimeout(timeout)
	}
	return 0
}

func perm(n vfs.Node) uint32 {
	if n.Kind() == vfs.KindFolder {
		return 0555
	}
	return 0444
}

// readAt returns the portion of data that fits in dest starting at offset off.
func readAt(data, dest []byte, off int64) []byte {
	if off >= int64(len(data)) {
		return nil
	}
	n := copy(dest, data[off:])
	return dest[:n]
}
