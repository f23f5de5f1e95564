package manifest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webdesk/pkg/config"
	"webdesk/pkg/vfs"
	"webdesk/pkg/vfs/vfstest"
)

const small = `{"type":"folder","name":"","children":{"a.txt":{"type":"file","name":"a.txt","fileType":"text","content":"a"}}}`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filesystem-manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func waitReady(t *testing.T, tree *vfs.Tree) {
	t.Helper()
	select {
	case <-tree.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not resolve")
	}
}

func TestFileSource(t *testing.T) {
	path := writeManifest(t, string(vfstest.Manifest()))

	root, err := Load(context.Background(), FileSource{Path: path}, nil)
	require.NoError(t, err)
	_, ok := root.Child("Applications")
	assert.True(t, ok)

	_, err = Load(context.Background(), FileSource{Path: path + ".missing"}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/filesystem-manifest.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(small))
		case "/broken.json":
			w.Write([]byte(`{"type":"folder","children":{"x":{"type":"file","name":"x","fileType":"component"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	root, err := Load(context.Background(), HTTPSource{URL: srv.URL + "/filesystem-manifest.json"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, root.Len())

	_, err = Load(context.Background(), HTTPSource{URL: srv.URL + "/missing"}, nil)
	assert.ErrorContains(t, err, "404")

	_, err = Load(context.Background(), HTTPSource{URL: srv.URL + "/broken.json"}, nil)
	assert.ErrorIs(t, err, vfs.ErrInvalidManifest)
}

type fakeObjects struct {
	objects map[string]string
	input   *s3.GetObjectInput
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestS3Source(t *testing.T) {
	objects := &fakeObjects{objects: map[string]string{"assets/fs.json": small}}

	src := NewS3SourceWithClient(objects, "assets", "fs.json")
	assert.Equal(t, "s3", src.Name())
	root, err := Load(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, root.Len())
	assert.Equal(t, "assets", aws.ToString(objects.input.Bucket))

	_, err = Load(context.Background(), NewS3SourceWithClient(objects, "assets", "other.json"), nil)
	assert.ErrorContains(t, err, "s3://assets/other.json")
}

func TestFromConfig(t *testing.T) {
	src, err := FromConfig(context.Background(), config.ManifestConfig{Source: "file", Path: "x.json"})
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "x.json"}, src)

	src, err = FromConfig(context.Background(), config.ManifestConfig{Source: "http", URL: "http://h/m.json"})
	require.NoError(t, err)
	assert.Equal(t, "http", src.Name())

	_, err = FromConfig(context.Background(), config.ManifestConfig{Source: "ftp"})
	assert.Error(t, err)
}

func TestLoadIntoFailsTree(t *testing.T) {
	tree := vfs.NewPendingTree()
	err := LoadInto(context.Background(), tree, FileSource{Path: "/nonexistent/manifest.json"}, nil)

	require.Error(t, err)
	assert.Equal(t, vfs.StatusFailed, tree.Status())
	_, ok := tree.Node("/home/visitor")
	assert.False(t, ok)
}

func TestProviderStartAndReload(t *testing.T) {
	path := writeManifest(t, small)
	p := NewProvider(FileSource{Path: path}, time.Second, nil)

	first := p.Start(context.Background())
	assert.Same(t, first, p.Current())
	waitReady(t, first)
	assert.Equal(t, vfs.StatusReady, first.Status())

	require.NoError(t, os.WriteFile(path, vfstest.Manifest(), 0o644))
	require.NoError(t, p.Reload(context.Background()))
	second := p.Current()
	assert.NotSame(t, first, second)
	_, ok := second.Node("/home/visitor/Documents")
	assert.True(t, ok)
	_, ok = first.Node("/a.txt")
	assert.True(t, ok, "existing trees are untouched")

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Error(t, p.Reload(context.Background()))
	assert.Same(t, second, p.Current(), "failed reload keeps the previous tree")
}

func TestWatcherReloads(t *testing.T) {
	path := writeManifest(t, small)
	p := NewProvider(FileSource{Path: path}, time.Second, nil)
	waitReady(t, p.Start(context.Background()))
	first := p.Current()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWatcher(p, path, 20*time.Millisecond, nil).Run(ctx) }()

	require.Eventually(t, func() bool {
		// Rewrite until the watcher has registered and picked it up.
		_ = os.WriteFile(path, vfstest.Manifest(), 0o644)
		return p.Current() != first
	}, 5*time.Second, 50*time.Millisecond)

	_, ok := p.Current().Node("/Applications/Terminal.app")
	assert.True(t, ok)

	cancel()
	assert.NoError(t, <-done)
}
