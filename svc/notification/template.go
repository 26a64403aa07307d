package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// TemplateSource loads raw HTML templates by name.
type TemplateSource interface {
	Template(ctx context.Context, name string) (string, error)
}

// FSSource reads templates from a file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource reads templates by file name from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource reads templates from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

func (s *FSSource) Template(_ context.Context, name string) (string, error) {
	b, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("notification: read template %s: %w", name, err)
	}
	return string(b), nil
}

// S3API is the part of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads templates from a bucket, under an optional key prefix.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source reads templates from bucket, under prefix when one is set.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds an S3 client. Static keys win over the default AWS
// credential chain. A custom endpoint switches to path-style addressing for
// S3-compatible stores.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("notification: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *S3Source) Template(ctx context.Context, name string) (string, error) {
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isMissingObject(err) {
			return "", fmt.Errorf("%w: s3://%s/%s", ErrTemplateNotFound, s.bucket, key)
		}
		return "", fmt.Errorf("notification: get template s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("notification: read template s3://%s/%s: %w", s.bucket, key, err)
	}
	return string(b), nil
}

func isMissingObject(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

const createdAtLayout = "02/01/2006 15:04"

// fillTemplate replaces $TITLE$, $CONTENT$ and $CREATED_AT$ with HTML-escaped values.
func fillTemplate(tpl string, n Notification) string {
	return strings.NewReplacer(
		"$TITLE$", templ.EscapeString(n.Title),
		"$CONTENT$", templ.EscapeString(n.Content),
		"$CREATED_AT$", n.CreatedAt.UTC().Format(createdAtLayout),
	).Replace(tpl)
}

// fallbackBody renders a minimal page when no template is available.
func fallbackBody(n Notification) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!DOCTYPE html><html><body>"+
			"<h1>"+templ.EscapeString(n.Title)+"</h1>"+
			"<p>"+templ.EscapeString(n.Content)+"</p>"+
			"<small>"+n.CreatedAt.UTC().Format(createdAtLayout)+"</small>"+
			"</body></html>")
		return err
	})
}
