package facility

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3GetObjectAPI is the subset of the S3 client used to fetch descriptions.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	s3Client   S3GetObjectAPI
	s3Region   string
	s3Endpoint string
	accessKey  string
	secretKey  string
}

// WithS3Client uses the given client instead of building one from the default AWS chain.
func WithS3Client(client S3GetObjectAPI) LoadOption {
	return func(o *loadOptions) {
		o.s3Client = client
	}
}

// WithS3Region sets the region used when building the default client.
func WithS3Region(region string) LoadOption {
	return func(o *loadOptions) {
		o.s3Region = region
	}
}

// WithS3Endpoint points the default client at an S3-compatible endpoint (path-style addressing).
func WithS3Endpoint(endpoint string) LoadOption {
	return func(o *loadOptions) {
		o.s3Endpoint = endpoint
	}
}

// WithS3StaticCredentials uses a fixed key pair instead of the default credential chain.
func WithS3StaticCredentials(accessKey, secretKey string) LoadOption {
	return func(o *loadOptions) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

func fetchS3(ctx context.Context, src Source, cfg loadOptions) ([]byte, error) {
	client := cfg.s3Client
	if client == nil {
		var err error
		client, err = newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", src.Bucket, src.Key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func newS3Client(ctx context.Context, cfg loadOptions) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.s3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.s3Region))
	}
	if cfg.accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.accessKey, cfg.secretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.s3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.s3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
