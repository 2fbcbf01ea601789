package cart

import (
	"context"
	"log"
	"sync"

	"voltwear/models"
)

// Notifier receives a callback after every committed cart mutation so open
// tabs can be told to refresh. Implementations must not block.
type Notifier interface {
	CartChanged(sessionID string, sess *models.CartSession)
}

// Service owns all cart session state. It is constructed once at startup
// and handed to the routes; there is no ambient global cart.
type Service struct {
	mu       sync.Mutex
	local    SessionStore
	remote   RemoteStore
	outbox   *Outbox
	notifier Notifier
}

func NewService(local SessionStore, remote RemoteStore) *Service {
	svc := &Service{
		local:  local,
		remote: remote,
		outbox: NewOutbox(remote),
	}
	svc.outbox.Start()
	return svc
}

// Close drains pending remote syncs. Call on shutdown.
func (s *Service) Close() {
	s.outbox.Stop()
}

func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// AddInput is what a storefront sends when putting a product in the bag.
// Price is paise; for ad-hoc custom designs the caller supplies the price
// and a synthetic product id.
type AddInput struct {
	ProductID string
	Name      string
	Size      string
	Quantity  int
	Price     int64
	Image     string
	Category  string
}

// Session returns the current snapshot, creating an empty one on first use.
func (s *Service) Session(ctx context.Context, sessionID string) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, sessionID)
}

// AddItem merges into an existing line when the (product, size) pair is
// already in the cart, otherwise appends a new line. The cart drawer opens
// as a side effect and the affected line is queued for remote upsert.
func (s *Service) AddItem(ctx context.Context, sessionID string, in AddInput) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	size := in.Size
	if size == "" {
		size = "M"
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	cartItemID := models.LineItemID(in.ProductID, size)
	var line *models.CartLineItem
	for i := range sess.Items {
		if sess.Items[i].CartItemID == cartItemID {
			sess.Items[i].Quantity += qty
			line = &sess.Items[i]
			break
		}
	}
	if line == nil {
		sess.Items = append(sess.Items, models.CartLineItem{
			CartItemID: cartItemID,
			ProductID:  in.ProductID,
			Name:       in.Name,
			Size:       size,
			Quantity:   qty,
			Price:      in.Price,
			Image:      in.Image,
			Category:   in.Category,
		})
		line = &sess.Items[len(sess.Items)-1]
	}
	sess.IsOpen = true

	s.outbox.EnqueueUpsert(sess.UserID, *line)
	return sess, s.persist(ctx, sess)
}

// RemoveItem is idempotent: removing a line that is not there is a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, cartItemID string) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := sess.Items[:0]
	for _, item := range sess.Items {
		if item.CartItemID != cartItemID {
			kept = append(kept, item)
		}
	}
	sess.Items = kept

	s.outbox.EnqueueDelete(sess.UserID, cartItemID)
	return sess, s.persist(ctx, sess)
}

// UpdateQuantity clamps to a floor of one. Dropping a line entirely is
// RemoveItem's job, never a zero quantity.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, cartItemID string, quantity int) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}
	for i := range sess.Items {
		if sess.Items[i].CartItemID == cartItemID {
			sess.Items[i].Quantity = quantity
			s.outbox.EnqueueUpsert(sess.UserID, sess.Items[i])
			break
		}
	}
	return sess, s.persist(ctx, sess)
}

// Clear empties items, coupon and discount locally. Remote rows are left
// alone; clearing them is an explicit step at order placement.
func (s *Service) Clear(ctx context.Context, sessionID string) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Items = []models.CartLineItem{}
	sess.Coupon = nil
	sess.Discount = 0
	return sess, s.persist(ctx, sess)
}

func (s *Service) SetOpen(ctx context.Context, sessionID string, open bool) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.IsOpen = open
	return sess, s.persist(ctx, sess)
}

// ApplyCoupon stores an already-validated coupon; validation belongs to the
// coupons engine.
func (s *Service) ApplyCoupon(ctx context.Context, sessionID string, coupon models.AppliedCoupon, discount int64) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Coupon = &coupon
	sess.Discount = discount
	return sess, s.persist(ctx, sess)
}

func (s *Service) RemoveCoupon(ctx context.Context, sessionID string) (*models.CartSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Coupon = nil
	sess.Discount = 0
	return sess, s.persist(ctx, sess)
}

// ClearRemote wipes the user's server-side rows, bypassing the outbox.
// Used after an order is placed.
func (s *Service) ClearRemote(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.remote.Clear(ctx, userID)
}

func (s *Service) load(ctx context.Context, sessionID string) (*models.CartSession, error) {
	sess, err := s.local.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = &models.CartSession{SessionID: sessionID, Items: []models.CartLineItem{}}
	}
	return sess, nil
}

func (s *Service) persist(ctx context.Context, sess *models.CartSession) error {
	if err := s.local.Save(ctx, sess); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.CartChanged(sess.SessionID, sess)
	}
	return nil
}

func logSyncErr(where string, err error) {
	if err != nil {
		log.Printf("%s: %v", where, err)
	}
}
