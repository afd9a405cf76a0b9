package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "brand-assets", "us-west-2", "", nil)

	desc, err := store.Put(context.Background(), Object{
		Pathname:    "k3j2h1g0f9e8.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://brand-assets.s3.us-west-2.amazonaws.com/k3j2h1g0f9e8.png", desc.URL)
	assert.Equal(t, "brand-assets", aws.ToString(client.input.Bucket))
	assert.Equal(t, "k3j2h1g0f9e8.png", aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "data", client.body)
}

func TestS3StorePublicBaseURL(t *testing.T) {
	store := NewS3Store(&fakeS3{}, "b", "r", "https://cdn.example.com/", nil)

	desc, err := store.Put(context.Background(), Object{Pathname: "x.jpg", Body: strings.NewReader("d")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.jpg", desc.URL)
}

func TestS3StorePutError(t *testing.T) {
	store := NewS3Store(&fakeS3{err: errors.New("AccessDenied")}, "b", "r", "", nil)

	_, err := store.Put(context.Background(), Object{Pathname: "x.jpg", Body: strings.NewReader("d")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}
