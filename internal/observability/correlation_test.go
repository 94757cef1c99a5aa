package observability

import (
	"context"
	"testing"
)

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc-123")
	if got := CorrelationIDFromContext(ctx); got != "abc-123" {
		t.Fatalf("got %q, want abc-123", got)
	}
}

func TestCorrelationIDFromContext_Missing(t *testing.T) {
	if got := CorrelationIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty ID, got %q", got)
	}
}

func TestWithCorrelationID_IgnoresEmpty(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty ID, got %q", got)
	}
}

func TestNewCorrelationID_Unique(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty IDs, got %q and %q", a, b)
	}
}
