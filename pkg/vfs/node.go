package vfs

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidManifest is returned when a manifest document does not describe
// a well-formed tree.
var ErrInvalidManifest = errors.New("vfs: invalid manifest")

// Kind discriminates the two node variants.
type Kind int

const (
	// KindFolder is a node holding named children.
	KindFolder Kind = iota
	// KindFile is a leaf node.
	KindFile
)

// String returns the manifest spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// FileType tells consumers how a file is presented and opened.
type FileType string

const (
	FileTypeText       FileType = "text"
	FileTypeMarkdown   FileType = "markdown"
	FileTypeLink       FileType = "link"
	FileTypeImage      FileType = "image"
	FileTypePDF        FileType = "pdf"
	FileTypeExecutable FileType = "executable"
)

// Valid reports whether t is one of the known file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeText, FileTypeMarkdown, FileTypeLink, FileTypeImage, FileTypePDF, FileTypeExecutable:
		return true
	}
	return false
}

// Node is an entry in the tree. It is implemented only by *Folder and *File,
// so a type switch over those two is exhaustive.
type Node interface {
	Name() string
	Kind() Kind
	sealed()
}

// Folder is a node with uniquely named children.
type Folder struct {
	name     string
	children map[string]Node
}

// NewFolder builds a folder. Later children replace earlier ones of the same name.
func NewFolder(name string, children ...Node) *Folder {
	f := &Folder{name: name, children: make(map[string]Node, len(children))}
	for _, c := range children {
		f.children[c.Name()] = c
	}
	return f
}

func (f *Folder) Name() string { return f.name }
func (f *Folder) Kind() Kind   { return KindFolder }
func (f *Folder) sealed()      {}

// Child returns the child stored under name.
func (f *Folder) Child(name string) (Node, bool) {
	n, ok := f.children[name]
	return n, ok
}

// Len returns the number of direct children.
func (f *Folder) Len() int { return len(f.children) }

// Children returns the direct children, folders first and then by name.
func (f *Folder) Children() []Node {
	out := make([]Node, 0, len(f.children))
	for _, c := range f.children {
		out = append(out, c)
	}
	SortNodes(out)
	return out
}

// File is a leaf node. Markdown, text and link files carry inline content,
// PDFs and images a URL, and executables the id of the app they launch.
type File struct {
	name     string
	fileType FileType
	content  string
	url      string
}

// NewFile builds a file node.
func NewFile(name string, fileType FileType, content, url string) *File {
	return &File{name: name, fileType: fileType, content: content, url: url}
}

func (f *File) Name() string       { return f.name }
func (f *File) Kind() Kind         { return KindFile }
func (f *File) sealed()            {}
func (f *File) FileType() FileType { return f.fileType }
func (f *File) Content() string    { return f.content }
func (f *File) URL() string        { return f.url }

// SortNodes orders nodes folders first, then case-insensitively by name.
func SortNodes(nodes []Node) {
	slices.SortFunc(nodes, func(a, b Node) int {
		if a.Kind() != b.Kind() {
			return cmp.Compare(a.Kind(), b.Kind())
		}
		if c := cmp.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name())); c != 0 {
			return c
		}
		return cmp.Compare(a.Name(), b.Name())
	})
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func Count(n Node) int {
	f, ok := n.(*Folder)
	if !ok {
		return 1
	}
	total := 1
	for _, c := range f.children {
		total += Count(c)
	}
	return total
}

// manifestNode is the wire form of a node.
type manifestNode struct {
	Type     string                     `json:"type"`
	Name     string                     `json:"name"`
	Children map[string]json.RawMessage `json:"children,omitempty"`
	FileType FileType                   `json:"fileType,omitempty"`
	Content  string                     `json:"content,omitempty"`
	URL      string                     `json:"url,omitempty"`
}

// ParseManifest decodes a manifest document. The top level must be a folder.
// A child with an empty name takes the key it is stored under; a child whose
// name differs from its key is rejected.
func ParseManifest(data []byte) (*Folder, error) {
	n, err := decodeNode(data, "", "/")
	if err != nil {
		return nil, err
	}
	root, ok := n.(*Folder)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not a folder", ErrInvalidManifest)
	}
	return root, nil
}

func decodeNode(data []byte, key, at string) (Node, error) {
	var m manifestNode
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, at, err)
	}

	name := m.Name
	if key != "" {
		if name == "" {
			name = key
		} else if name != key {
			return nil, fmt.Errorf("%w: %s: name %q does not match key %q", ErrInvalidManifest, at, name, key)
		}
	}

	switch m.Type {
	case "folder":
		f := &Folder{name: name, children: make(map[string]Node, len(m.Children))}
		for k, raw := range m.Children {
			if k == "" || strings.Contains(k, "/") {
				return nil, fmt.Errorf("%w: %s: bad child name %q", ErrInvalidManifest, at, k)
			}
			child, err := decodeNode(raw, k, Join(at, k))
			if err != nil {
				return nil, err
			}
			f.children[k] = child
		}
		return f, nil
	case "file":
		if !m.FileType.Valid() {
			return nil, fmt.Errorf("%w: %s: unknown file type %q", ErrInvalidManifest, at, m.FileType)
		}
		return NewFile(name, m.FileType, m.Content, m.URL), nil
	default:
		return nil, fmt.Errorf("%w: %s: unknown node type %q", ErrInvalidManifest, at, m.Type)
	}
}

// MarshalJSON encodes the folder and its subtree in manifest form.
func (f *Folder) MarshalJSON() ([]byte, error) {
	children := make(map[string]json.RawMessage, len(f.children))
	for k, c := range f.children {
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		children[k] = raw
	}
	return json.Marshal(struct {
		Type     string                     `json:"type"`
		Name     string                     `json:"name"`
		Children map[string]json.RawMessage `json:"children"`
	}{"folder", f.name, children})
}

// MarshalJSON encodes the file in manifest form.
func (f *File) MarshalJSON() ([]byte, error) {
	return json.Marshal(manifestNode{
		Type:     "file",
		Name:     f.name,
		FileType: f.fileType,
		Content:  f.content,
		URL:      f.url,
	})
}
