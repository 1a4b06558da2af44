package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// s3PutAPI is the slice of the S3 client the archiver needs.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads graph snapshots to S3 as timestamped JSON objects, for
// post-mortem inspection of long-running reactive workloads.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	archiver := devtools.NewArchiver(s3.NewFromConfig(cfg), "my-bucket", "ripple/snapshots")
//	key, err := archiver.Upload(ctx, ripple.Snapshot())
type Archiver struct {
	client s3PutAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewArchiver creates an archiver writing to bucket under prefix.
func NewArchiver(client *s3.Client, bucket, prefix string) *Archiver {
	return newArchiver(client, bucket, prefix)
}

func newArchiver(client s3PutAPI, bucket, prefix string) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// Upload serializes snap and writes it to S3, returning the object key.
func (a *Archiver) Upload(ctx context.Context, snap ripple.GraphSnapshot) (string, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key := path.Join(a.prefix, a.now().UTC().Format("2006/01/02/150405.000000000")+".json")

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot to s3://%s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}
