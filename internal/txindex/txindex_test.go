package txindex

import (
	"context"
	"testing"

	memindex "provencore/internal/infra/txindex/memory"
)

func TestOpenDefaultsToNone(t *testing.T) {
	t.Setenv("PROVENCORE_TXINDEX_DRIVER", "")
	idx, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if idx != nil {
		t.Fatalf("driver none must yield no index, got %T", idx)
	}
}

func TestOpenMemoryDriver(t *testing.T) {
	t.Setenv("PROVENCORE_TXINDEX_DRIVER", "memory")
	idx, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := idx.(*memindex.Index); !ok {
		t.Fatalf("expected the in-memory index, got %T", idx)
	}
}

func TestOpenS3DriverRequiresBucket(t *testing.T) {
	t.Setenv("PROVENCORE_TXINDEX_DRIVER", "s3")
	t.Setenv("PROVENCORE_TXINDEX_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected the s3 driver to demand a bucket")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Setenv("PROVENCORE_TXINDEX_DRIVER", "dynamo")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected an unknown driver to fail")
	}
}
