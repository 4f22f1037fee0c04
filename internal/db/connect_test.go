package db

import (
	"context"
	"testing"
)

func TestConnectRejectsBadDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "://not-a-dsn"); err == nil {
		t.Fatalf("expected error for malformed DSN")
	}
}
