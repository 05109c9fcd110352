// Package s3 implements the tx-hash index over an S3-compatible object store
// (AWS S3 or MinIO). One object per batch; the object body is the hash.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"provencore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.TxHashIndex = (*Store)(nil)

// Store reads batch creation hashes from a single bucket. Keys are
// <prefix><batch id>.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// Config holds explicit construction parameters (mostly for tests). For prod
// we rely primarily on environment variables.
type Config struct {
	Region    string
	Bucket    string
	Prefix    string // default "batches/"
	Endpoint  string // optional; if set enables custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//   PROVENCORE_TXINDEX_DRIVER=s3
//   PROVENCORE_TXINDEX_S3_BUCKET=<bucket> (required)
//   PROVENCORE_TXINDEX_S3_REGION=<region> (default us-east-1)
//   PROVENCORE_TXINDEX_S3_ENDPOINT=<url> (optional, for MinIO)
//   PROVENCORE_TXINDEX_S3_PREFIX=<key prefix> (default batches/)
//   PROVENCORE_TXINDEX_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 tx-hash index from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "batches/"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// OpenFromEnv constructs an S3 index from process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("PROVENCORE_TXINDEX_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("PROVENCORE_TXINDEX_S3_BUCKET required for s3 driver")
	}
	cfg := Config{
		Bucket:    bucket,
		Region:    os.Getenv("PROVENCORE_TXINDEX_S3_REGION"),
		Endpoint:  os.Getenv("PROVENCORE_TXINDEX_S3_ENDPOINT"),
		Prefix:    os.Getenv("PROVENCORE_TXINDEX_S3_PREFIX"),
		PathStyle: strings.EqualFold(os.Getenv("PROVENCORE_TXINDEX_S3_PATH_STYLE"), "true"),
	}
	return New(ctx, cfg)
}

// TxHashForBatch implements domain.TxHashIndex. A missing object is a normal
// absent entry, not an error.
func (s *Store) TxHashForBatch(ctx context.Context, id uint64) (string, bool, error) {
	key := s.prefix + strconv.FormatUint(id, 10)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) || isNotFoundStatus(err) {
			return "", false, nil
		}
		return "", false, err
	}
	defer func() { _ = out.Body.Close() }()
	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, err
	}
	hash := strings.TrimSpace(string(body))
	if hash == "" {
		return "", false, nil
	}
	return hash, true, nil
}

// isNotFoundStatus catches backends that answer 404 without a NoSuchKey code.
func isNotFoundStatus(err error) bool {
	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == 404
	}
	return false
}
