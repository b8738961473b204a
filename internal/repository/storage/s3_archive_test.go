package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3SnapshotArchive_Archive(t *testing.T) {
	putter := &fakePutter{}
	archive := NewS3SnapshotArchiveWithClient(putter, "kavi-snapshots")

	err := archive.Archive(context.Background(), "credit-scores/a.json", map[string]int{"score": 712})
	require.NoError(t, err)

	assert.Equal(t, "kavi-snapshots", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "credit-scores/a.json", aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(len(putter.body)), aws.ToInt64(putter.input.ContentLength))
	assert.JSONEq(t, `{"score":712}`, string(putter.body))
}

func TestS3SnapshotArchive_UploadError(t *testing.T) {
	archive := NewS3SnapshotArchiveWithClient(&fakePutter{err: errors.New("access denied")}, "b")

	err := archive.Archive(context.Background(), "k", struct{}{})
	assert.ErrorContains(t, err, "access denied")
}

func TestSnapshotPath(t *testing.T) {
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	businessID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	id := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	at := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)

	got := SnapshotPath("credit-scores", userID, businessID, at, id)

	assert.Equal(t,
		"credit-scores/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/2025/03/20250309T140507Z_33333333-3333-3333-3333-333333333333.json",
		got)
}
