package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/quickchat/quickchat-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")...)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUpload_DataURI(t *testing.T) {
	putter := &fakePutter{}
	u := newUploader(config.S3Config{Region: "eu-west-1", Bucket: "avatars", PublicBaseURL: "https://cdn.example.com/"}, putter)

	url, err := u.Upload(context.Background(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngBytes))
	require.NoError(t, err)

	require.NotNil(t, putter.in)
	assert.Equal(t, "avatars", *putter.in.Bucket)
	assert.Equal(t, "image/png", *putter.in.ContentType)
	assert.True(t, strings.HasPrefix(*putter.in.Key, "avatars/"))
	assert.True(t, strings.HasSuffix(*putter.in.Key, ".png"))
	assert.Equal(t, pngBytes, putter.body)
	assert.Equal(t, "https://cdn.example.com/"+*putter.in.Key, url)
}

func TestUpload_BareBase64(t *testing.T) {
	putter := &fakePutter{}
	u := newUploader(config.S3Config{Region: "eu-west-1", Bucket: "avatars"}, putter)

	url, err := u.Upload(context.Background(), base64.StdEncoding.EncodeToString(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "https://avatars.s3.eu-west-1.amazonaws.com/"+*putter.in.Key, url)
}

func TestUpload_CustomEndpointURL(t *testing.T) {
	putter := &fakePutter{}
	u := newUploader(config.S3Config{Region: "us-east-1", Bucket: "avatars", Endpoint: "http://127.0.0.1:9000/"}, putter)

	url, err := u.Upload(context.Background(), base64.StdEncoding.EncodeToString(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/avatars/"+*putter.in.Key, url)
}

func TestUpload_PutFailure(t *testing.T) {
	boom := errors.New("access denied")
	u := newUploader(config.S3Config{Region: "us-east-1", Bucket: "avatars"}, &fakePutter{err: boom})

	_, err := u.Upload(context.Background(), base64.StdEncoding.EncodeToString(pngBytes))
	require.ErrorIs(t, err, boom)
}

func TestUpload_RejectsBadPayloadsWithoutPutting(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"empty", "   ", ErrEmptyImage},
		{"empty data uri", "data:image/png;base64,", ErrEmptyImage},
		{"data uri without comma", "data:image/png;base64", ErrInvalidImage},
		{"not base64", "!!!not-base64!!!", ErrInvalidImage},
		{"text", base64.StdEncoding.EncodeToString([]byte("hello, world")), ErrNotAnImage},
		{"too large", strings.Repeat("A", (MaxImageSize/3)*4+8), ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			putter := &fakePutter{}
			u := newUploader(config.S3Config{Region: "us-east-1", Bucket: "avatars"}, putter)

			_, err := u.Upload(context.Background(), tt.payload)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, putter.in, "nothing should be uploaded")
		})
	}
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	_, err := NewUploader(context.Background(), config.S3Config{Region: "us-east-1"})
	require.Error(t, err)
}
