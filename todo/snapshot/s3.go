package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API The subset of [s3.Client] used by [S3]
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 A AWS S3 (or compatible) object snapshot. PutObject replaces the object as a
// whole, so readers never observe a partial snapshot
type S3 struct {
	bucket string
	key    string
	client S3API
}

var _ S3API = (*s3.Client)(nil)

// NewS3 Create a new [S3] snapshot stored as key inside bucket. Path style addressing
// is enabled when the config carries a custom endpoint (MinIO, localstack, ...)
func NewS3(bucket, key string, config aws.Config) *S3 {
	client := s3.NewFromConfig(config, func(o *s3.Options) {
		o.UsePathStyle = config.BaseEndpoint != nil
	})

	return NewS3FromClient(client, bucket, key)
}

// NewS3FromClient Create a new [S3] snapshot on top of an existing client
func NewS3FromClient(client S3API, bucket, key string) *S3 {
	return &S3{
		bucket: bucket,
		key:    strings.TrimPrefix(key, "/"),
		client: client,
	}
}

// Key The object key holding the snapshot
func (s *S3) Key() string {
	return s.key
}

func (s *S3) Load(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isMissingObject(err) {
			return nil, ErrNotExist
		}

		return nil, err
	}
	defer obj.Body.Close()

	return io.ReadAll(obj.Body)
}

func (s *S3) Save(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})

	return err
}

func isMissingObject(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
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
