package mirror

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Destination keeps snapshots as objects under a key prefix in one bucket.
// Credentials and region come from the standard AWS environment.
type S3Destination struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Destination(ctx context.Context, bucket, prefix string) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &S3Destination{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

func (d *S3Destination) key(name string) string {
	return d.prefix + name
}

func (d *S3Destination) Write(ctx context.Context, name string, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (d *S3Destination) Read(ctx context.Context, name string) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
	})
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
