package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/google/uuid"
)

// S3ImageStore stores recipe images in an S3 bucket.
type S3ImageStore struct {
	Cfg *config.Config
}

// NewS3ImageStore creates a new S3ImageStore.
func NewS3ImageStore(cfg *config.Config) *S3ImageStore {
	return &S3ImageStore{Cfg: cfg}
}

// newS3Client creates a new S3 client from the app config.
// When AWS access key and secret are provided, static credentials are used;
// otherwise the default credential chain is preserved (IAM role, instance
// profile, etc.) so ECS/EC2 task roles work without explicit keys.
func (s *S3ImageStore) newS3Client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.Cfg.EnvVars.AWSRegion),
	}

	if s.Cfg.EnvVars.AWSAccessKeyID != "" && s.Cfg.EnvVars.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.Cfg.EnvVars.AWSAccessKeyID,
			s.Cfg.EnvVars.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// UploadRecipeImage uploads decoded image bytes to the bucket and returns
// the public location URL.
func (s *S3ImageStore) UploadRecipeImage(ctx context.Context, imgBytes []byte, ext string, key string) (string, error) {
	client, err := s.newS3Client(ctx)
	if err != nil {
		return "", err
	}

	uploader := manager.NewUploader(client)

	result, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Cfg.EnvVars.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imgBytes),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return result.Location, nil
}

// DeleteRecipeImage deletes an image from the bucket.
func (s *S3ImageStore) DeleteRecipeImage(ctx context.Context, key string) error {
	client, err := s.newS3Client(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Cfg.EnvVars.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %v", err)
	}

	return nil
}

// GenerateImageKey generates a unique S3 key for a recipe image.
func GenerateImageKey(ext string) string {
	return fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)
}
