package mirror

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	s3iface.S3API

	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3_Put(t *testing.T) {
	local := filepath.Join(t.TempDir(), "report.zip")
	require.NoError(t, os.WriteFile(local, []byte("zip bytes"), 0o644))
	client := &fakeS3{}

	key, err := NewS3(client, "artifacts", "converted", zap.NewNop()).Put(context.Background(), "req-1", local, "application/zip")
	require.NoError(t, err)

	assert.Equal(t, "converted/req-1/report.zip", key)
	assert.Equal(t, "artifacts", aws.StringValue(client.input.Bucket))
	assert.Equal(t, key, aws.StringValue(client.input.Key))
	assert.Equal(t, "application/zip", aws.StringValue(client.input.ContentType))
	assert.Equal(t, []byte("zip bytes"), client.body)
}

func TestS3_PutErrors(t *testing.T) {
	m := NewS3(&fakeS3{err: errors.New("AccessDenied")}, "artifacts", "", zap.NewNop())

	_, err := m.Put(context.Background(), "req-1", filepath.Join(t.TempDir(), "missing.png"), "image/png")
	assert.Error(t, err)

	local := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0o644))
	_, err = m.Put(context.Background(), "req-1", local, "image/png")
	assert.EqualError(t, err, "AccessDenied")
}

func TestNop(t *testing.T) {
	key, err := Nop{}.Put(context.Background(), "r", "p", "c")
	assert.NoError(t, err)
	assert.Empty(t, key)
}
