// internal/common/aws/s3.go
package aws

import (
	"bytes"
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service is the subset of S3 used to store uploads.
type S3Service interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Presigner signs GET links for stored objects.
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ObjectStore writes objects to one bucket and hands out time-limited links.
type ObjectStore struct {
	bucket    string
	client    S3Service
	presigner S3Presigner
}

func NewObjectStore(cfg awssdk.Config, bucket string) *ObjectStore {
	client := s3.NewFromConfig(cfg)
	return &ObjectStore{
		bucket:    bucket,
		client:    client,
		presigner: s3.NewPresignClient(client),
	}
}

// NewObjectStoreWithClients is used by tests to inject fakes.
func NewObjectStoreWithClients(bucket string, client S3Service, presigner S3Presigner) *ObjectStore {
	return &ObjectStore{bucket: bucket, client: client, presigner: presigner}
}

func (s *ObjectStore) Bucket() string {
	return s.bucket
}

func (s *ObjectStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(s.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(body),
		ContentType: awssdk.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// PresignGet returns a GET URL for key valid for ttl.
func (s *ObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign s3://%s/%s: %w", s.bucket, key, err)
	}
	return req.URL, nil
}
