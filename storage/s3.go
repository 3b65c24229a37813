package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/designhawk/techcrunch/config"
	"github.com/designhawk/techcrunch/types"
)

// S3Store keeps digest records as JSON objects under an optional key prefix.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store builds an S3-backed store. Region and profile fall back to the
// standard AWS config/credential chain when empty.
func NewS3Store(ctx context.Context, cfg config.S3) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (s *S3Store) key(date string) string {
	return s.prefix + recordName(date)
}

// Save uploads the digest record, replacing any existing object for the date.
func (s *S3Store) Save(ctx context.Context, digest types.DailyDigest) error {
	data, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode digest %s: %w", digest.Date, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(digest.Date)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload digest %s: %w", digest.Date, err)
	}
	return nil
}

// Load fetches and decodes the digest object for a date, or ErrNotFound.
func (s *S3Store) Load(ctx context.Context, date string) (types.DailyDigest, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(date)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return types.DailyDigest{}, fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return types.DailyDigest{}, fmt.Errorf("failed to get digest %s: %w", date, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return types.DailyDigest{}, fmt.Errorf("failed to read digest %s: %w", date, err)
	}

	var digest types.DailyDigest
	if err := json.Unmarshal(data, &digest); err != nil {
		return types.DailyDigest{}, fmt.Errorf("failed to decode digest %s: %w", date, err)
	}
	return digest, nil
}

// ListDates lists all digest objects under the prefix, most recent first.
func (s *S3Store) ListDates(ctx context.Context) ([]string, error) {
	var dates []string
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix + recordPrefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list digests: %w", err)
		}

		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if date, ok := dateFromRecord(name); ok {
				dates = append(dates, date)
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}

	sortDatesDesc(dates)
	return dates, nil
}

// Latest returns the most recent digest, or ErrNotFound when none exist.
func (s *S3Store) Latest(ctx context.Context) (types.DailyDigest, error) {
	return latestFrom(ctx, s)
}

// Delete removes the digest object for a date. S3 deletes are idempotent, so
// a missing object is reported as ErrNotFound only when detectable.
func (s *S3Store) Delete(ctx context.Context, date string) error {
	if _, err := s.Load(ctx, date); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(date)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete digest %s: %w", date, err)
	}
	return nil
}

// Stats reports how many digests are stored and where.
func (s *S3Store) Stats(ctx context.Context) (Stats, error) {
	dates, err := s.ListDates(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		TotalDigests: len(dates),
		Location:     "s3://" + s.bucket + "/" + s.prefix,
	}
	if len(dates) > 0 {
		st.LatestDate = dates[0]
	}
	return st, nil
}
