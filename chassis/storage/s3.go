package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	log "github.com/freundallein/blogs/backend/chassis/logging"
)

// S3Source reads a JSON array object from an S3 bucket.
type S3Source struct {
	Bucket string
	Key    string
	client s3iface.S3API
}

// InitS3Source ...
func InitS3Source(cfg Config) (*S3Source, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.CredentialsFile != "" || cfg.CredentialsProfile != "" {
		awsCfg.Credentials = credentials.NewSharedCredentials(cfg.CredentialsFile, cfg.CredentialsProfile)
	}
	ssn, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}
	return NewS3Source(s3.New(ssn), cfg.Bucket, cfg.Key), nil
}

// NewS3Source ...
func NewS3Source(client s3iface.S3API, bucket, key string) *S3Source {
	return &S3Source{
		Bucket: bucket,
		Key:    key,
		client: client,
	}
}

// Name ...
func (s *S3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}

// Read ...
func (s *S3Source) Read(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket), // Required
		Key:    aws.String(s.Key),    // Required
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"event":  "read_dataset",
		"source": "aws_s3",
		"bytes":  len(data),
	}).Debug(s.Name())
	return data, nil
}
