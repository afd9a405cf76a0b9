package blob

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes objects to an S3 bucket readable by the public.
type S3Store struct {
	client  S3API
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Client builds an S3 client. A non-empty endpoint switches to
// path-style addressing for local emulators.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Store returns a store for bucket. Public URLs are built from
// publicBaseURL, or the bucket's virtual-hosted endpoint when it is empty.
func NewS3Store(client S3API, bucket, region, publicBaseURL string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: publicBaseURL,
		logger:  logger,
	}
}

// Put uploads obj with a single PutObject call.
func (s *S3Store) Put(ctx context.Context, obj Object) (Descriptor, error) {
	desc := describe(s.baseURL, obj)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(obj.Pathname),
		Body:               obj.Body,
		ContentType:        aws.String(obj.ContentType),
		ContentLength:      aws.Int64(obj.Size),
		ContentDisposition: aws.String(desc.ContentDisposition),
		CacheControl:       aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return Descriptor{}, fmt.Errorf("put object: %w", err)
	}

	s.logger.Debug("put s3 object", "bucket", s.bucket, "key", obj.Pathname, "size", obj.Size)
	return desc, nil
}
