package source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 client used to fetch objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a network description from an S3 object
type S3Source struct {
	Bucket string
	Key    string
	Client ObjectGetter
}

// AWSOptions configures access to s3:// sources. Zero values defer to the
// SDK's default resolution chain.
type AWSOptions struct {
	Region          string
	Profile         string
	Endpoint        string // S3 compatible endpoint, e.g. MinIO; enables path-style addressing
	AccessKeyID     string
	SecretAccessKey string
}

func (o AWSOptions) loadOptions() []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error
	if o.Region != "" {
		opts = append(opts, config.WithRegion(o.Region))
	}
	if o.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(o.Profile))
	}
	if o.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(o.Endpoint))
	}
	if o.AccessKeyID != "" && o.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}
	return opts
}

// NewS3Source creates an S3-backed source.
func NewS3Source(ctx context.Context, bucket, key string, opts AWSOptions) (*S3Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, opts.loadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.Endpoint != ""
	})

	return &S3Source{
		Bucket: bucket,
		Key:    key,
		Client: client,
	}, nil
}

// Load downloads the object body.
func (s *S3Source) Load(ctx context.Context) ([]byte, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.Describe(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Describe(), err)
	}
	return data, nil
}

// Describe returns the s3:// location.
func (s *S3Source) Describe() string {
	return fmt.Sprintf("%s://%s/%s", S3Scheme, s.Bucket, s.Key)
}
