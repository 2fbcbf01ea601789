package cart

import (
	"context"

	"voltwear/models"
)

// AuthChange is a login/logout transition for one browsing session.
// UserID is empty on sign-out.
type AuthChange struct {
	SessionID string
	UserID    string
}

// ListenAuth consumes auth transitions until the channel closes.
func (s *Service) ListenAuth(ch <-chan AuthChange) {
	go func() {
		for ev := range ch {
			s.OnAuthChange(context.Background(), ev.SessionID, ev.UserID)
		}
	}()
}

// OnAuthChange reconciles local and remote cart state across an auth
// transition:
//
//   - sign-out: local state is cleared; remote rows persist for next login.
//   - sign-in (or account switch): the remote snapshot replaces local state
//     when it has any rows. When the remote cart is empty, the anonymous
//     cart is kept and pushed up instead of being discarded.
func (s *Service) OnAuthChange(ctx context.Context, sessionID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		logSyncErr("cart auth reconcile load", err)
		return
	}
	if sess.UserID == userID {
		return
	}

	if userID == "" {
		sess.UserID = ""
		sess.Items = []models.CartLineItem{}
		sess.Coupon = nil
		sess.Discount = 0
		logSyncErr("cart sign-out persist", s.persist(ctx, sess))
		return
	}

	wasAnonymous := sess.UserID == ""

	remoteItems, err := s.remote.Load(ctx, userID)
	if err != nil {
		// Remote unreachable: local stays the visible truth for now.
		logSyncErr("cart load from remote", err)
		remoteItems = nil
	}

	sess.UserID = userID
	if !wasAnonymous {
		// Account switch is a fresh login; nothing from the previous
		// identity may leak across.
		sess.Coupon = nil
		sess.Discount = 0
		sess.Items = []models.CartLineItem{}
	}
	switch {
	case len(remoteItems) > 0:
		sess.Items = remoteItems
	case wasAnonymous:
		for _, item := range sess.Items {
			s.outbox.EnqueueUpsert(userID, item)
		}
	}
	logSyncErr("cart sign-in persist", s.persist(ctx, sess))
}
