package cart

import (
	"fmt"
	"testing"

	"voltwear/models"
)

func TestOutboxRetriesUntilSuccess(t *testing.T) {
	remote := newMemRemote()
	remote.failures = 2 // first two attempts fail

	o := NewOutbox(remote)
	o.backoff = 0
	o.Start()

	o.EnqueueUpsert("user-1", models.CartLineItem{CartItemID: "7-M", ProductID: "7", Size: "M", Quantity: 1, Price: 100})
	o.Stop()

	if _, ok := remote.row("user-1", "7-M"); !ok {
		t.Fatal("row missing after retries")
	}
	if remote.calls != 3 {
		t.Fatalf("remote calls = %d, want 3 (two failures then success)", remote.calls)
	}
}

func TestOutboxGivesUpAfterMaxRetries(t *testing.T) {
	remote := newMemRemote()
	remote.failures = 100 // never recovers

	o := NewOutbox(remote)
	o.backoff = 0
	o.maxRetries = 2
	o.Start()

	o.EnqueueUpsert("user-1", models.CartLineItem{CartItemID: "7-M", Quantity: 1})
	o.Stop()

	// Dropped, not stuck: the worker moved on.
	if _, ok := remote.row("user-1", "7-M"); ok {
		t.Fatal("row unexpectedly written")
	}
	if remote.calls != 3 {
		t.Fatalf("remote calls = %d, want initial attempt plus 2 retries", remote.calls)
	}
}

func TestOutboxDrainsOnStop(t *testing.T) {
	remote := newMemRemote()

	o := NewOutbox(remote)
	o.backoff = 0
	o.Start()

	for i := 0; i < 50; i++ {
		o.EnqueueUpsert("user-1", models.CartLineItem{
			CartItemID: fmt.Sprintf("p%d-M", i),
			Quantity:   1,
		})
	}
	o.Stop()

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if len(remote.rows["user-1"]) == 0 {
		t.Fatal("no rows written before shutdown")
	}
	if remote.calls != 50 {
		t.Fatalf("remote calls = %d, want 50", remote.calls)
	}
}

func TestOutboxIgnoresAnonymousOps(t *testing.T) {
	remote := newMemRemote()

	o := NewOutbox(remote)
	o.Start()
	o.EnqueueUpsert("", models.CartLineItem{CartItemID: "7-M"})
	o.EnqueueDelete("", "7-M")
	o.Stop()

	if remote.calls != 0 {
		t.Fatalf("remote calls = %d, want 0 for anonymous ops", remote.calls)
	}
}

func TestOutboxDelete(t *testing.T) {
	remote := newMemRemote()
	remote.rows["user-1"] = map[string]models.CartLineItem{
		"7-M": {CartItemID: "7-M", Quantity: 1},
	}

	o := NewOutbox(remote)
	o.backoff = 0
	o.Start()
	o.EnqueueDelete("user-1", "7-M")
	o.Stop()

	if _, ok := remote.row("user-1", "7-M"); ok {
		t.Fatal("row still present after delete")
	}
}
