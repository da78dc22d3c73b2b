package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/dmitrijs2005/finlink/internal/server/config"
)

// Test seams.
var (
	loadDefaultAWSConfig        = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig       = s3.NewFromConfig
	newSecretsManagerFromConfig = secretsmanager.NewFromConfig
)

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerStore reads secrets from AWS Secrets Manager. Both string
// and binary secrets are supported.
type SecretsManagerStore struct {
	client secretsManagerAPI
}

func NewSecretsManagerStore(ctx context.Context, region string) (*SecretsManagerStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SecretsManagerStore{client: newSecretsManagerFromConfig(cfg)}, nil
}

func (s *SecretsManagerStore) Fetch(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(id)})
	if err != nil {
		var nf *smtypes.ResourceNotFoundException
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, id)
		}
		return nil, err
	}
	if out.SecretString != nil {
		return []byte(*out.SecretString), nil
	}
	if len(out.SecretBinary) > 0 {
		return out.SecretBinary, nil
	}
	return nil, fmt.Errorf("%w: %s is empty", ErrSecretNotFound, id)
}

type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads secrets as objects from an S3-compatible bucket, keyed by
// the secret identifier.
type S3Store struct {
	client s3API
	bucket string
}

func NewS3Store(ctx context.Context, c *config.Config) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: c.S3Bucket}, nil
}

func (s *S3Store) Fetch(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		var nk *s3types.NoSuchKey
		if errors.As(err, &nk) {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, id)
		}
		return nil, err
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrSecretNotFound, id)
	}
	return b, nil
}
