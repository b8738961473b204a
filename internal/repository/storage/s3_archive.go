package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	cfg "github.com/kavi/kavi-backend/internal/config"
)

// SnapshotArchive stores immutable JSON snapshots of computed analytics
type SnapshotArchive interface {
	Archive(ctx context.Context, objectPath string, snapshot any) error
}

// objectPutter is the part of the S3 client the archive uses
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3SnapshotArchive implements SnapshotArchive using AWS S3
type S3SnapshotArchive struct {
	client objectPutter
	bucket string
}

// NewS3SnapshotArchive creates an archive writing to the configured bucket
func NewS3SnapshotArchive(ctx context.Context, s3cfg cfg.S3Config) (*S3SnapshotArchive, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s3cfg.Region),
	}

	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3cfg.AccessKeyID,
				s3cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Endpoint override for MinIO/LocalStack
	var client *s3.Client
	if s3cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	if err := ensureBucket(ctx, client, s3cfg.Bucket); err != nil {
		return nil, err
	}

	return &S3SnapshotArchive{client: client, bucket: s3cfg.Bucket}, nil
}

// NewS3SnapshotArchiveWithClient wraps an existing client
func NewS3SnapshotArchiveWithClient(client objectPutter, bucket string) *S3SnapshotArchive {
	return &S3SnapshotArchive{client: client, bucket: bucket}
}

// ensureBucket creates the bucket if it doesn't exist. The bucket stays private.
func ensureBucket(ctx context.Context, client *s3.Client, bucket string) error {
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		var noSuchBucket *types.NoSuchBucket
		if !errors.As(err, &noSuchBucket) {
			return fmt.Errorf("failed to check bucket (may be permission denied): %w", err)
		}
	}

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive uploads snapshot as a JSON object at objectPath
func (r *S3SnapshotArchive) Archive(ctx context.Context, objectPath string, snapshot any) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(objectPath),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return nil
}

// SnapshotPath builds the object path of a snapshot:
// <kind>/<user>/<business>/<yyyy>/<mm>/<timestamp>_<id>.json
func SnapshotPath(kind string, userID, businessID uuid.UUID, at time.Time, id uuid.UUID) string {
	at = at.UTC()
	filename := fmt.Sprintf("%s_%s.json", at.Format("20060102T150405Z"), id)
	return path.Join(kind, userID.String(), businessID.String(), at.Format("2006"), at.Format("01"), filename)
}
