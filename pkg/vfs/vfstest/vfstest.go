// Package vfstest provides a small fixed filesystem for tests.
package vfstest

import (
	_ "embed"

	"webdesk/pkg/vfs"
)

//go:embed manifest.json
var manifest []byte

// Manifest returns the raw fixture manifest.
func Manifest() []byte {
	out := make([]byte, len(manifest))
	copy(out, manifest)
	return out
}

// Tree returns a ready tree built from the fixture manifest.
func Tree() *vfs.Tree {
	root, err := vfs.ParseManifest(manifest)
	if err != nil {
		panic("vfstest: " + err.Error())
	}
	return vfs.NewTree(root)
}
