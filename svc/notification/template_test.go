package notification_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/svc/notification"
)

type fakeS3 struct {
	objects map[string]string
	err     error
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, aws.ToString(in.Bucket)+"/"+key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reads under the prefix", func(t *testing.T) {
		t.Parallel()
		client := &fakeS3{objects: map[string]string{"emails/notification.html": "<p>$TITLE$</p>"}}
		src := notification.NewS3Source(client, "pedidoz-templates", "emails")

		tpl, err := src.Template(ctx, "notification.html")
		require.NoError(t, err)
		assert.Equal(t, "<p>$TITLE$</p>", tpl)
		assert.Equal(t, []string{"pedidoz-templates/emails/notification.html"}, client.keys)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		src := notification.NewS3Source(&fakeS3{}, "pedidoz-templates", "")
		_, err := src.Template(ctx, "notification.html")
		require.ErrorIs(t, err, notification.ErrTemplateNotFound)
	})

	t.Run("not found from an s3 compatible store", func(t *testing.T) {
		t.Parallel()
		src := notification.NewS3Source(&fakeS3{err: &smithy.GenericAPIError{Code: "NotFound"}}, "b", "")
		_, err := src.Template(ctx, "notification.html")
		require.ErrorIs(t, err, notification.ErrTemplateNotFound)
	})

	t.Run("other failures pass through", func(t *testing.T) {
		t.Parallel()
		denied := &smithy.GenericAPIError{Code: "AccessDenied"}
		src := notification.NewS3Source(&fakeS3{err: denied}, "b", "")
		_, err := src.Template(ctx, "notification.html")
		require.Error(t, err)
		assert.False(t, errors.Is(err, notification.ErrTemplateNotFound))
		assert.ErrorIs(t, err, denied)
	})
}

func TestNewS3ClientStaticCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client, err := notification.NewS3Client(ctx, notification.Config{
		S3Region:    "sa-east-1",
		S3Endpoint:  "http://localhost:9000",
		S3AccessKey: "minio",
		S3SecretKey: "minio-secret",
	})
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "sa-east-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))

	creds, err := opts.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)
	assert.Equal(t, "minio-secret", creds.SecretAccessKey)
}
