package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveService ships snapshot exports to a Spaces/S3 bucket so state can
// be recovered even if the database is lost.
type ArchiveService struct {
	client *s3.Client
	bucket string
	region string
	Root   string
}

func NewArchiveService(spacesKey, spacesSecret, region, bucket, root string) *ArchiveService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	client := s3.NewFromConfig(cfg)

	return &ArchiveService{
		client: client,
		bucket: bucket,
		region: region,
		Root:   strings.TrimPrefix(root, "/"),
	}
}

// UploadSnapshot stores a serialized snapshot under root/snapshots keyed by
// sequence number.
func (s *ArchiveService) UploadSnapshot(ctx context.Context, seq uint64, state []byte) error {
	key := fmt.Sprintf("%s/snapshots/%020d.json", s.Root, seq)
	contentType := "application/json"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(state),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %d: %w", seq, err)
	}
	return nil
}

func (s *ArchiveService) GetBucket() string {
	return s.bucket
}

func (s *ArchiveService) GetRegion() string {
	return s.region
}
