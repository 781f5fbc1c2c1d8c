package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config describes where snapshots land in an S3-compatible store.
// A non-empty Endpoint switches the client to path-style addressing,
// which MinIO and most self-hosted gateways require.
type S3Config struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string
}

// S3Destination uploads each snapshot to a fixed object key, overwriting
// the previous one.
type S3Destination struct {
	client *s3.Client
	cfg    S3Config
}

func NewS3Destination(ctx context.Context, cfg S3Config) (*S3Destination, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Destination{client: client, cfg: cfg}, nil
}

func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.cfg.Bucket),
		Key:         aws.String(d.cfg.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", d.cfg.Bucket, d.cfg.Key, err)
	}
	return nil
}

func (d *S3Destination) String() string {
	return fmt.Sprintf("s3://%s/%s", d.cfg.Bucket, d.cfg.Key)
}
