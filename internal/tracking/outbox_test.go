package tracking

import (
	"fmt"
	"testing"
)

func payloadN(n int) Payload {
	return Payload{EventName: "funnel.step.changed", SessionID: fmt.Sprintf("s%d", n)}
}

func TestOutbox_FIFOOrder(t *testing.T) {
	box := NewOutbox(10)
	for i := 0; i < 3; i++ {
		box.Add(payloadN(i))
	}

	drained := box.Drain(0)
	if len(drained) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(drained))
	}
	for i, p := range drained {
		if p.SessionID != fmt.Sprintf("s%d", i) {
			t.Fatalf("order broken at %d: %s", i, p.SessionID)
		}
	}
	if box.Len() != 0 {
		t.Fatalf("drain must empty the outbox, %d left", box.Len())
	}
}

func TestOutbox_EvictsOldestWhenFull(t *testing.T) {
	box := NewOutbox(2)
	box.Add(payloadN(0))
	box.Add(payloadN(1))

	if evicted := box.Add(payloadN(2)); !evicted {
		t.Fatal("expected eviction at capacity")
	}
	if box.Dropped() != 1 {
		t.Fatalf("expected 1 dropped, got %d", box.Dropped())
	}

	drained := box.Drain(0)
	if len(drained) != 2 || drained[0].SessionID != "s1" || drained[1].SessionID != "s2" {
		t.Fatalf("oldest entry must be evicted first: %+v", drained)
	}
}

func TestOutbox_DefaultCapacity(t *testing.T) {
	box := NewOutbox(0)
	for i := 0; i < defaultOutboxCap+10; i++ {
		box.Add(payloadN(i))
	}
	if box.Len() != defaultOutboxCap {
		t.Fatalf("expected len %d, got %d", defaultOutboxCap, box.Len())
	}
	if box.Dropped() != 10 {
		t.Fatalf("expected 10 dropped, got %d", box.Dropped())
	}
}

func TestOutbox_DrainPartial(t *testing.T) {
	box := NewOutbox(10)
	for i := 0; i < 5; i++ {
		box.Add(payloadN(i))
	}

	first := box.Drain(2)
	if len(first) != 2 || first[0].SessionID != "s0" {
		t.Fatalf("unexpected partial drain: %+v", first)
	}
	if box.Len() != 3 {
		t.Fatalf("expected 3 remaining, got %d", box.Len())
	}
}

func TestOutbox_RequeueKeepsOrderAndCap(t *testing.T) {
	box := NewOutbox(3)
	box.Add(payloadN(2))

	box.Requeue([]Payload{payloadN(0), payloadN(1)})

	drained := box.Drain(0)
	if len(drained) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(drained))
	}
	for i, p := range drained {
		if p.SessionID != fmt.Sprintf("s%d", i) {
			t.Fatalf("requeue broke order at %d: %s", i, p.SessionID)
		}
	}

	// Requeue beyond capacity drops from the tail, keeping the oldest.
	box.Requeue([]Payload{payloadN(0), payloadN(1), payloadN(2), payloadN(3)})
	if box.Len() != 3 {
		t.Fatalf("expected cap 3 after oversized requeue, got %d", box.Len())
	}
}
