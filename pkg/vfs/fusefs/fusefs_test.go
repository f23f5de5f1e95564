package fusefs

import (
	"context"
	"syscall"
	"testing"

	"github.com/hanwen/go-fuse/v2/fuse"

	"webdesk/pkg/vfs"
	"webdesk/pkg/vfs/vfstest"
)

func TestFolderReaddir(t *testing.T) {
	tree := vfstest.Tree()
	docs, ok := tree.Folder("/home/visitor/Documents")
	if !ok {
		t.Fatal("fixture is missing Documents")
	}
	node := &folderNode{folder: docs, opts: &Options{}}

	stream, errno := node.Readdir(context.Background())
	if errno != 0 {
		t.Fatalf("Readdir failed with errno %d", errno)
	}

	var entries []fuse.DirEntry
	for stream.HasNext() {
		e, _ := stream.Next()
		entries = append(entries, e)
	}

	expected := []string{"empty.txt", "README.md", "Recipes.md", "Resume.pdf"}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}
	for i, e := range entries {
		if e.Name != expected[i] {
			t.Errorf("entry %d: expected %q, got %q", i, expected[i], e.Name)
		}
		if e.Mode != fuse.S_IFREG {
			t.Errorf("entry %d: expected regular file mode, got %o", i, e.Mode)
		}
	}
}

func TestFileRead(t *testing.T) {
	node := &fileNode{body: fileBody(vfs.NewFile("a.md", vfs.FileTypeMarkdown, "hello world", "")), opts: &Options{}}

	dest := make([]byte, 5)
	res, errno := node.Read(context.Background(), nil, dest, 6)
	if errno != 0 {
		t.Fatalf("Read failed with errno %d", errno)
	}
	data, _ := res.Bytes(nil)
	if string(data) != "world" {
		t.Errorf("expected 'world', got %q", data)
	}

	res, _ = node.Read(context.Background(), nil, dest, 100)
	data, _ = res.Bytes(nil)
	if len(data) != 0 {
		t.Errorf("expected empty read past end, got %q", data)
	}
}

func TestFileBody(t *testing.T) {
	tests := []struct {
		file *vfs.File
		want string
	}{
		{vfs.NewFile("r.pdf", vfs.FileTypePDF, "", "/files/r.pdf"), "/files/r.pdf\n"},
		{vfs.NewFile("t.app", vfs.FileTypeExecutable, "terminal", ""), "terminal"},
		{vfs.NewFile("e.txt", vfs.FileTypeText, "", ""), ""},
	}
	for _, tt := range tests {
		if got := string(fileBody(tt.file)); got != tt.want {
			t.Errorf("fileBody(%s) = %q, expected %q", tt.file.Name(), got, tt.want)
		}
	}
}

func TestFileOpenRejectsWrites(t *testing.T) {
	node := &fileNode{opts: &Options{}}
	if _, _, errno := node.Open(context.Background(), syscall.O_WRONLY); errno != syscall.EROFS {
		t.Errorf("expected EROFS, got %v", errno)
	}
	if _, _, errno := node.Open(context.Background(), syscall.O_RDONLY); errno != 0 {
		t.Errorf("expected read open to succeed, got %v", errno)
	}
}

func TestGetattr(t *testing.T) {
	node := &fileNode{body: []byte("abc"), opts: &Options{}}
	var out fuse.AttrOut
	if errno := node.Getattr(context.Background(), nil, &out); errno != 0 {
		t.Fatalf("Getattr failed with errno %d", errno)
	}
	if out.Size != 3 {
		t.Errorf("expected size 3, got %d", out.Size)
	}
	if out.Mode != fuse.S_IFREG|0444 {
		t.Errorf("unexpected mode %o", out.Mode)
	}
}
