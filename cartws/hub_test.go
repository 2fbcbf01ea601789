package cartws

import (
	"encoding/json"
	"testing"
	"time"

	"voltwear/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:      make(chan []byte, 10),
		SessionID: "s1",
	}
	hub.register <- client

	sess := &models.CartSession{
		SessionID: "s1",
		Items: []models.CartLineItem{
			{CartItemID: "7-M", ProductID: "7", Size: "M", Quantity: 2, Price: 499900},
		},
	}
	hub.CartChanged("s1", sess)

	select {
	case got := <-client.Send:
		var ev cartEvent
		if err := json.Unmarshal(got, &ev); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if ev.Action != "cart" {
			t.Fatalf("action = %q", ev.Action)
		}
		if len(ev.Cart.Items) != 1 || ev.Cart.Items[0].CartItemID != "7-M" {
			t.Fatalf("cart = %+v", ev.Cart)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubOtherSessionsHearNothing(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	mine := &Client{Send: make(chan []byte, 10), SessionID: "s1"}
	other := &Client{Send: make(chan []byte, 10), SessionID: "s2"}
	hub.register <- mine
	hub.register <- other

	hub.CartChanged("s1", &models.CartSession{SessionID: "s1"})

	select {
	case <-mine.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("session s2 received s1's update: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
