package auth

import (
	"testing"
	"time"
)

func TestSessionsFanOut(t *testing.T) {
	s := NewSessions()
	defer s.Close()

	a := s.Subscribe()
	b := s.Subscribe()

	s.Publish("s1", "user-1")

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.SessionID != "s1" || ev.UserID != "user-1" {
				t.Fatalf("subscriber %s got %+v", name, ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s got nothing", name)
		}
	}
}

func TestSessionsSlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewSessions()
	defer s.Close()

	s.Subscribe() // never read from

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Publish("s1", "user-1")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
