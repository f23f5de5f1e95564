// Package vfs provides the read-only virtual filesystem that backs the
// desktop: path resolution, the folder/file node tree loaded from a
// manifest, and per-window sessions that keep their own current directory.
//
// # Paths
//
// Paths are slash-delimited and rooted at "/". "~" stands for HomePath.
// Normalize only collapses slashes; Resolve applies ".", ".." and "~".
//
// # Trees and sessions
//
// A Tree is loaded once and shared by every session. Until it is loaded
// (or if loading failed) every lookup except the root reports not-found.
//
//	root, err := vfs.ParseManifest(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	s := vfs.NewSession(vfs.NewTree(root))
//	s.Navigate("Documents")
//	items, _ := s.List("")
package vfs
