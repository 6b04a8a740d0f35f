package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bilgisen/rsswatch/internal/config"
	"github.com/bilgisen/rsswatch/internal/models"
)

// ObjectPutter is the slice of the S3 API the exporter needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Exporter uploads each run's newly inserted items as a JSON document to
// an R2-compatible bucket, keyed by date and run id.
type Exporter struct {
	client ObjectPutter
	bucket string
}

// NewExporter builds an exporter against the configured R2 endpoint
func NewExporter(ctx context.Context, cfg *config.Config) (*Exporter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})

	return &Exporter{client: client, bucket: cfg.R2Bucket}, nil
}

// NewExporterWithClient is used by tests to inject a fake client
func NewExporterWithClient(client ObjectPutter, bucket string) *Exporter {
	return &Exporter{client: client, bucket: bucket}
}

// Export uploads the run's inserted items under runs/<date>/<run-id>.json
func (e *Exporter) Export(ctx context.Context, runID string, items []models.NewsItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run export: %w", err)
	}

	key := fmt.Sprintf("runs/%s/%s.json", time.Now().UTC().Format("2006/01/02"), runID)

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload run export %s: %w", key, err)
	}
	return nil
}
