package vfs

import "sync"

// Status describes where a tree is in its one-time load.
type Status int

const (
	// StatusLoading means the manifest has not arrived yet.
	StatusLoading Status = iota
	// StatusReady means the tree holds the loaded manifest.
	StatusReady
	// StatusFailed means the load failed; the tree stays empty for good.
	StatusFailed
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Tree is the shared, read-only filesystem. It is populated exactly once,
// either at construction or by a later Load or Fail, and never mutated
// afterwards. Lookups before a successful load report not-found.
type Tree struct {
	mu     sync.RWMutex
	root   *Folder
	status Status
	err    error
	count  int
	done   chan struct{}
}

// NewTree returns a ready tree over root.
func NewTree(root *Folder) *Tree {
	t := NewPendingTree()
	t.Load(root)
	return t
}

// NewPendingTree returns a tree that is still loading.
func NewPendingTree() *Tree {
	return &Tree{
		root: NewFolder(""),
		done: make(chan struct{}),
	}
}

// Load completes a pending tree with root. It returns false if the tree was
// already settled, in which case nothing changes.
func (t *Tree) Load(root *Folder) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusLoading {
		return false
	}
	if root == nil {
		root = NewFolder("")
	}
	t.root = root
	t.count = Count(root)
	t.status = StatusReady
	close(t.done)
	return true
}

// Fail settles a pending tree as permanently empty.
func (t *Tree) Fail(err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusLoading {
		return false
	}
	t.err = err
	t.status = StatusFailed
	close(t.done)
	return true
}

// Status returns the load status.
func (t *Tree) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Err returns the load error of a failed tree.
func (t *Tree) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Done is closed once the tree is settled.
func (t *Tree) Done() <-chan struct{} {
	return t.done
}

// Count returns the number of nodes in a ready tree.
func (t *Tree) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Root returns the root folder; an unloaded tree has an empty root.
func (t *Tree) Root() *Folder {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Node looks up a path. The path is normalized first; traversal through a
// missing child or a file yields not-found.
func (t *Tree) Node(p string) (Node, bool) {
	t.mu.RLock()
	root, status := t.root, t.status
	t.mu.RUnlock()

	if status != StatusReady {
		if Normalize(p) == Root {
			return root, true
		}
		return nil, false
	}

	var cur Node = root
	for _, seg := range Segments(p) {
		f, ok := cur.(*Folder)
		if !ok {
			return nil, false
		}
		if cur, ok = f.Child(seg); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Folder looks up a path that must be a folder.
func (t *Tree) Folder(p string) (*Folder, bool) {
	n, ok := t.Node(p)
	if !ok {
		return nil, false
	}
	f, ok := n.(*Folder)
	return f, ok
}
