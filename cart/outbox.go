package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"voltwear/models"
)

type opKind int

const (
	opUpsert opKind = iota + 1
	opDelete
)

type syncOp struct {
	kind       opKind
	userID     string
	cartItemID string
	item       models.CartLineItem
}

// Outbox decouples local cart mutations from remote persistence. The local
// state commits synchronously; a single worker drains queued upserts and
// deletes with retry and backoff. A mutation that still fails after the last
// retry is logged and dropped — local state stays the user-visible truth and
// the next sync of the same key heals the drift.
type Outbox struct {
	remote     RemoteStore
	ops        chan syncOp
	done       chan struct{}
	wg         sync.WaitGroup
	maxRetries int
	backoff    time.Duration
}

func NewOutbox(remote RemoteStore) *Outbox {
	return &Outbox{
		remote:     remote,
		ops:        make(chan syncOp, 256),
		done:       make(chan struct{}),
		maxRetries: 3,
		backoff:    250 * time.Millisecond,
	}
}

func (o *Outbox) Start() {
	o.wg.Add(1)
	go o.run()
}

// Stop drains anything still queued, then shuts the worker down.
func (o *Outbox) Stop() {
	close(o.done)
	o.wg.Wait()
}

func (o *Outbox) EnqueueUpsert(userID string, item models.CartLineItem) {
	o.enqueue(syncOp{kind: opUpsert, userID: userID, cartItemID: item.CartItemID, item: item})
}

func (o *Outbox) EnqueueDelete(userID, cartItemID string) {
	o.enqueue(syncOp{kind: opDelete, userID: userID, cartItemID: cartItemID})
}

func (o *Outbox) enqueue(op syncOp) {
	// Anonymous sessions have no remote rows to keep in step.
	if op.userID == "" {
		return
	}
	select {
	case o.ops <- op:
	default:
		log.Printf("cart outbox full, dropping %v for %s/%s", op.kind, op.userID, op.cartItemID)
	}
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for {
		select {
		case op := <-o.ops:
			o.process(op)
		case <-o.done:
			for {
				select {
				case op := <-o.ops:
					o.process(op)
				default:
					return
				}
			}
		}
	}
}

func (o *Outbox) process(op syncOp) {
	delay := o.backoff
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		var err error
		switch op.kind {
		case opUpsert:
			err = o.remote.Upsert(ctx, op.userID, op.item)
		case opDelete:
			err = o.remote.Delete(ctx, op.userID, op.cartItemID)
		}
		cancel()

		if err == nil {
			return
		}
		log.Printf("cart sync attempt %d failed for %s/%s: %v", attempt+1, op.userID, op.cartItemID, err)
	}
	log.Printf("cart sync giving up on %s/%s", op.userID, op.cartItemID)
}
