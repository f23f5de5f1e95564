// Package manifest fetches the filesystem manifest and resolves trees from
// it. A Provider hands the current tree to new desktops and can be reloaded,
// for instance by a Watcher, without touching desktops already running.
package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"webdesk/pkg/config"
)

// MaxSize bounds a fetched manifest.
const MaxSize = 8 << 20

// Source fetches raw manifest bytes.
type Source interface {
	// Name labels the source in logs and metrics.
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the manifest from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file" }

func (s FileSource) Fetch(context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return data, nil
}

// HTTPSource fetches the manifest with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return "http" }

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch manifest: unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

// ObjectGetter is the part of the S3 client a source uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the manifest from an object store.
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Source builds an S3 client from cfg. Static credentials are used when
// an access key is configured, the default AWS chain otherwise.
func NewS3Source(ctx context.Context, cfg config.S3Config) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3SourceWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewS3SourceWithClient reads bucket/key through client.
func NewS3SourceWithClient(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Name() string { return "s3" }

func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()
	return readLimited(out.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("manifest exceeds %d bytes", MaxSize)
	}
	return data, nil
}

// FromConfig returns the source cfg describes.
func FromConfig(ctx context.Context, cfg config.ManifestConfig) (Source, error) {
	switch cfg.Source {
	case "file":
		return FileSource{Path: cfg.Path}, nil
	case "http":
		return HTTPSource{URL: cfg.URL, Client: &http.Client{Timeout: cfg.Timeout}}, nil
	case "s3":
		return NewS3Source(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown manifest source %q", cfg.Source)
	}
}
