package aws

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockS3Service struct {
	PutObjectFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *MockS3Service) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return m.PutObjectFunc(ctx, params, optFns...)
}

type MockS3Presigner struct {
	PresignGetObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

func (m *MockS3Presigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return m.PresignGetObjectFunc(ctx, params, optFns...)
}

func TestObjectStore_Put(t *testing.T) {
	var got *s3.PutObjectInput
	store := NewObjectStoreWithClients("voice", &MockS3Service{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			got = params
			return &s3.PutObjectOutput{}, nil
		},
	}, nil)

	require.NoError(t, store.Put(context.Background(), "signatures/a.wav", "audio/wav", []byte("RIFF")))
	assert.Equal(t, "voice", awssdk.ToString(got.Bucket))
	assert.Equal(t, "signatures/a.wav", awssdk.ToString(got.Key))
	assert.Equal(t, "audio/wav", awssdk.ToString(got.ContentType))
	body, _ := io.ReadAll(got.Body)
	assert.Equal(t, "RIFF", string(body))
}

func TestObjectStore_PutError(t *testing.T) {
	store := NewObjectStoreWithClients("voice", &MockS3Service{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("AccessDenied")
		},
	}, nil)

	err := store.Put(context.Background(), "k", "audio/wav", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://voice/k")
}

func TestObjectStore_PresignGet(t *testing.T) {
	store := NewObjectStoreWithClients("voice", nil, &MockS3Presigner{
		PresignGetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			opts := s3.PresignOptions{}
			for _, fn := range optFns {
				fn(&opts)
			}
			assert.Equal(t, 7*24*time.Hour, opts.Expires)
			return &v4.PresignedHTTPRequest{URL: "https://voice.s3.amazonaws.com/" + awssdk.ToString(params.Key) + "?X-Amz-Signature=abc"}, nil
		},
	})

	url, err := store.PresignGet(context.Background(), "signatures/a.wav", 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://voice.s3.amazonaws.com/signatures/a.wav?X-Amz-Signature=abc", url)
}
