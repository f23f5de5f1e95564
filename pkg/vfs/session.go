package vfs

import "strings"

// Session is a cursor over a shared tree. Each terminal and Finder window
// owns its own session. A Session is not safe for concurrent use; its owner
// serializes access.
type Session struct {
	tree *Tree
	cwd  string
}

// NewSession returns a session positioned at HomePath.
func NewSession(tree *Tree) *Session {
	return &Session{tree: tree, cwd: HomePath}
}

// Tree returns the tree the session reads from.
func (s *Session) Tree() *Tree { return s.tree }

// Cwd returns the current path.
func (s *Session) Cwd() string { return s.cwd }

// ResolvePath resolves p against the current path.
func (s *Session) ResolvePath(p string) string {
	return Resolve(s.cwd, p)
}

// Node resolves p against the current path and looks it up.
func (s *Session) Node(p string) (Node, bool) {
	return s.tree.Node(s.ResolvePath(p))
}

// Navigate moves the cursor to p if it resolves to a folder. On failure the
// current path is left unchanged.
func (s *Session) Navigate(p string) bool {
	resolved := s.ResolvePath(p)
	if _, ok := s.tree.Folder(resolved); !ok {
		return false
	}
	s.cwd = resolved
	return true
}

// List returns the children of the folder at p, or of the current path when
// p is empty. It reports false if p does not resolve to a folder.
func (s *Session) List(p string) ([]Node, bool) {
	target := s.cwd
	if p != "" {
		target = s.ResolvePath(p)
	}
	f, ok := s.tree.Folder(target)
	if !ok {
		return nil, false
	}
	return f.Children(), true
}

// Completions returns the entries that could complete partial as a path
// argument. The directory part of partial is kept as typed, the last segment
// is matched case-insensitively as a prefix, and folders get a trailing slash.
func (s *Session) Completions(partial string) []string {
	if partial == "" {
		items, ok := s.List("")
		if !ok {
			return nil
		}
		out := make([]string, 0, len(items))
		for _, n := range items {
			out = append(out, n.Name()+suffix(n))
		}
		return out
	}

	lastSlash := strings.LastIndex(partial, "/")
	dir := s.cwd
	switch {
	case lastSlash == 0:
		dir = Root
	case lastSlash > 0:
		dir = s.ResolvePath(partial[:lastSlash])
	}
	prefix := strings.ToLower(partial[lastSlash+1:])
	keep := partial[:lastSlash+1]

	f, ok := s.tree.Folder(dir)
	if !ok {
		return nil
	}

	var out []string
	for _, n := range f.Children() {
		if strings.HasPrefix(strings.ToLower(n.Name()), prefix) {
			out = append(out, keep+n.Name()+suffix(n))
		}
	}
	return out
}

func suffix(n Node) string {
	if n.Kind() == KindFolder {
		return "/"
	}
	return ""
}
