package memory

import (
	"context"
	"testing"

	"github.com/holdline/ticketcore/internal/store"
)

func TestPutAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Put(ctx, "event-1", "A-1", map[string]any{"seat_state": "available"}, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	item, err := s.Get(ctx, "event-1", "A-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.Attrs["seat_state"] != "available" {
		t.Fatalf("Get returned %v, want seat_state=available", item.Attrs)
	}
}

func TestGetNotFound(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "missing", "missing"); err != store.ErrNotFound {
		t.Fatalf("Get on missing item = %v, want store.ErrNotFound", err)
	}
}

func TestPutMustNotExistRejectsOverwrite(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Put(ctx, "venue-1", "VENUE", map[string]any{"name": "Arena"}, store.MustNotExist); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := s.Put(ctx, "venue-1", "VENUE", map[string]any{"name": "Arena 2"}, store.MustNotExist); err != store.ErrConditionFailed {
		t.Fatalf("second Put = %v, want store.ErrConditionFailed", err)
	}
}

func TestQueryFiltersByPartition(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.Put(ctx, "event-1", "A-1", map[string]any{"seat_state": "available"}, nil)
	_ = s.Put(ctx, "event-1", "A-2", map[string]any{"seat_state": "available"}, nil)
	_ = s.Put(ctx, "event-2", "A-1", map[string]any{"seat_state": "available"}, nil)

	items, err := s.Query(ctx, "event-1", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Query returned %d items, want 2", len(items))
	}
}

func TestUpdateConditional(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Put(ctx, "event-1", "A-1", map[string]any{"seat_state": "available"}, nil)

	err := s.UpdateConditional(ctx, "event-1", "A-1", func(attrs map[string]any) {
		attrs["seat_state"] = "held"
	}, store.AttrEquals("seat_state", "available"))
	if err != nil {
		t.Fatalf("UpdateConditional: %v", err)
	}

	item, _ := s.Get(ctx, "event-1", "A-1")
	if item.Attrs["seat_state"] != "held" {
		t.Fatalf("seat_state = %v, want held", item.Attrs["seat_state"])
	}

	err = s.UpdateConditional(ctx, "event-1", "A-1", func(attrs map[string]any) {
		attrs["seat_state"] = "held"
	}, store.AttrEquals("seat_state", "available"))
	if err != store.ErrConditionFailed {
		t.Fatalf("stale condition UpdateConditional = %v, want store.ErrConditionFailed", err)
	}
}

func TestTransactWriteAppliesAllOrNothing(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Put(ctx, "event-1", "A-1", map[string]any{"seat_state": "available"}, nil)
	_ = s.Put(ctx, "event-1", "A-2", map[string]any{"seat_state": "held"}, nil)

	ops := []store.Op{
		store.UpdateOp("event-1", "A-1", func(attrs map[string]any) {
			attrs["seat_state"] = "held"
		}, store.AttrEquals("seat_state", "available")),
		store.UpdateOp("event-1", "A-2", func(attrs map[string]any) {
			attrs["seat_state"] = "held"
		}, store.AttrEquals("seat_state", "available")), // fails: A-2 is already held
	}
	if err := s.TransactWrite(ctx, ops); err == nil {
		t.Fatal("TransactWrite succeeded despite a failing condition")
	}

	item, _ := s.Get(ctx, "event-1", "A-1")
	if item.Attrs["seat_state"] != "available" {
		t.Fatalf("A-1 was mutated despite the transaction failing: %v", item.Attrs["seat_state"])
	}
}
