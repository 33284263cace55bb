package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store is the swap-in alternative to Cloudinary for setups that point
// at an S3-compatible bucket (MinIO included).
type S3Store struct {
	client   *s3.Client
	endpoint string
	bucket   string
}

type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               c.Endpoint,
			SigningRegion:     region,
			HostnameImmutable: true,
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = c.UsePathStyle
	})

	return &S3Store{client: client, endpoint: c.Endpoint, bucket: c.Bucket}, nil
}

func (s *S3Store) Upload(ctx context.Context, data []byte, fileName, folder string) (*Result, error) {
	contentType := http.DetectContentType(data)

	ext := format(fileName)
	key := folder + "/" + uuid.New().String()
	if ext != "" {
		key += "." + ext
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	resourceType := Category(contentType)
	if resourceType == "" {
		resourceType = "raw"
	}

	return &Result{
		URL:          s.endpoint + "/" + s.bucket + "/" + key,
		PublicID:     key,
		ResourceType: resourceType,
		Format:       ext,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}
