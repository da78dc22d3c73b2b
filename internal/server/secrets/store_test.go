package secrets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/finlink/internal/server/config"
)

// ---- fakes ----

type fakeSM struct {
	values map[string]*secretsmanager.GetSecretValueOutput
	err    error
	asked  []string
}

func (f *fakeSM) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = append(f.asked, aws.ToString(in.SecretId))
	if f.err != nil {
		return nil, f.err
	}
	out, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return nil, &smtypes.ResourceNotFoundException{Message: aws.String("missing")}
	}
	return out, nil
}

type fakeS3 struct {
	objects map[string][]byte
	bucket  string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

// ---- tests ----

func TestSecretsManagerStore_Fetch(t *testing.T) {
	sm := &fakeSM{values: map[string]*secretsmanager.GetSecretValueOutput{
		"cert": {SecretString: aws.String("-----BEGIN CERTIFICATE-----")},
		"key":  {SecretBinary: []byte("binary-key")},
		"void": {},
	}}
	s := &SecretsManagerStore{client: sm}
	ctx := context.Background()

	b, err := s.Fetch(ctx, "cert")
	require.NoError(t, err)
	assert.Equal(t, "-----BEGIN CERTIFICATE-----", string(b))

	b, err = s.Fetch(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "binary-key", string(b))

	_, err = s.Fetch(ctx, "void")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = s.Fetch(ctx, "nope")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	boom := errors.New("throttled")
	s = &SecretsManagerStore{client: &fakeSM{err: boom}}
	_, err = s.Fetch(ctx, "cert")
	assert.ErrorIs(t, err, boom)
}

func TestFetchMaterial(t *testing.T) {
	sm := &fakeSM{values: map[string]*secretsmanager.GetSecretValueOutput{
		"c": {SecretString: aws.String("CERT")},
		"k": {SecretString: aws.String("KEY")},
	}}
	m, err := FetchMaterial(context.Background(), &SecretsManagerStore{client: sm}, "c", "k")
	require.NoError(t, err)
	assert.Equal(t, "CERT", string(m.Certificate))
	assert.Equal(t, "KEY", string(m.PrivateKey))
	assert.Equal(t, []string{"c", "k"}, sm.asked)

	_, err = FetchMaterial(context.Background(), &SecretsManagerStore{client: sm}, "c", "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.ErrorContains(t, err, "private key")
}

func TestS3Store_Fetch(t *testing.T) {
	f := &fakeS3{objects: map[string][]byte{"teller/cert.pem": []byte("CERT"), "empty": {}}}
	s := &S3Store{client: f, bucket: "secrets"}

	b, err := s.Fetch(context.Background(), "teller/cert.pem")
	require.NoError(t, err)
	assert.Equal(t, "CERT", string(b))
	assert.Equal(t, "secrets", f.bucket)

	_, err = s.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = s.Fetch(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestFileStore_Fetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "teller"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teller", "certificate.pem"), []byte("CERT"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "key.txt"), []byte("KEY"), 0o600))

	s := NewFileStore(dir)
	ctx := context.Background()

	b, err := s.Fetch(ctx, "teller/certificate")
	require.NoError(t, err)
	assert.Equal(t, "CERT", string(b))

	b, err = s.Fetch(ctx, "key.txt")
	require.NoError(t, err)
	assert.Equal(t, "KEY", string(b))

	_, err = s.Fetch(ctx, "teller/missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = s.Fetch(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestNew_SelectsBackend(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origS3 := newS3ClientFromConfig
	origSM := newSecretsManagerFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origS3
		newSecretsManagerFromConfig = origSM
	})

	var region string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		region = lo.Region
		return aws.Config{Region: lo.Region}, nil
	}

	var baseEndpoint string
	var pathStyle bool
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		baseEndpoint = aws.ToString(opts.BaseEndpoint)
		pathStyle = opts.UsePathStyle
		return &s3.Client{}
	}
	newSecretsManagerFromConfig = func(cfg aws.Config, optFns ...func(*secretsmanager.Options)) *secretsmanager.Client {
		return &secretsmanager.Client{}
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.S3Region = "eu-west-1"

	st, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &SecretsManagerStore{}, st)
	assert.Equal(t, "eu-west-1", region)

	cfg.SecretBackend = config.SecretBackendS3
	st, err = New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, st)
	assert.Equal(t, "http://127.0.0.1:9000/", baseEndpoint)
	assert.True(t, pathStyle)

	cfg.SecretBackend = config.SecretBackendFile
	st, err = New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, st)

	cfg.SecretBackend = "vault"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_AWSConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	boom := errors.New("no creds")
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, boom
	}

	_, err := NewSecretsManagerStore(context.Background(), "us-east-1")
	assert.ErrorIs(t, err, boom)
}
