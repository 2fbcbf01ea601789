package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"voltwear/models"
)

// memLocal is an in-memory SessionStore.
type memLocal struct {
	mu       sync.Mutex
	sessions map[string]*models.CartSession
}

func newMemLocal() *memLocal {
	return &memLocal{sessions: make(map[string]*models.CartSession)}
}

func (m *memLocal) Load(_ context.Context, sessionID string) (*models.CartSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *sess
	cp.Items = append([]models.CartLineItem(nil), sess.Items...)
	return &cp, nil
}

func (m *memLocal) Save(_ context.Context, sess *models.CartSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sess
	cp.Items = append([]models.CartLineItem(nil), sess.Items...)
	m.sessions[sess.SessionID] = &cp
	return nil
}

func (m *memLocal) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// memRemote is an in-memory RemoteStore that can fail on demand.
type memRemote struct {
	mu       sync.Mutex
	rows     map[string]map[string]models.CartLineItem
	failures int // upserts/deletes to fail before succeeding
	calls    int
}

func newMemRemote() *memRemote {
	return &memRemote{rows: make(map[string]map[string]models.CartLineItem)}
}

func (m *memRemote) Load(_ context.Context, userID string) ([]models.CartLineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []models.CartLineItem
	for _, item := range m.rows[userID] {
		items = append(items, item)
	}
	return items, nil
}

func (m *memRemote) Upsert(_ context.Context, userID string, item models.CartLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("remote unavailable")
	}
	if m.rows[userID] == nil {
		m.rows[userID] = make(map[string]models.CartLineItem)
	}
	m.rows[userID][item.CartItemID] = item
	return nil
}

func (m *memRemote) Delete(_ context.Context, userID, cartItemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("remote unavailable")
	}
	delete(m.rows[userID], cartItemID)
	return nil
}

func (m *memRemote) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, userID)
	return nil
}

func (m *memRemote) row(userID, cartItemID string) (models.CartLineItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.rows[userID][cartItemID]
	return item, ok
}

func newTestService() (*Service, *memLocal, *memRemote) {
	local := newMemLocal()
	remote := newMemRemote()
	svc := NewService(local, remote)
	svc.outbox.backoff = 0 // keep retries instant in tests
	return svc, local, remote
}

func TestAddItemMergesSameProductAndSize(t *testing.T) {
	svc, _, _ := newTestService()
	defer svc.Close()
	ctx := context.Background()

	in := AddInput{ProductID: "7", Name: "Neon Tee", Size: "M", Quantity: 1, Price: 499900}
	if _, err := svc.AddItem(ctx, "s1", in); err != nil {
		t.Fatal(err)
	}
	in.Quantity = 2
	sess, err := svc.AddItem(ctx, "s1", in)
	if err != nil {
		t.Fatal(err)
	}

	if len(sess.Items) != 1 {
		t.Fatalf("items = %d, want 1 merged line", len(sess.Items))
	}
	if sess.Items[0].CartItemID != "7-M" {
		t.Fatalf("cartItemId = %q, want 7-M", sess.Items[0].CartItemID)
	}
	if sess.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", sess.Items[0].Quantity)
	}
	if !sess.IsOpen {
		t.Fatal("adding an item should open the cart")
	}
}

func TestAddItemDifferentSizesStaySeparate(t *testing.T) {
	svc, _, _ := newTestService()
	defer svc.Close()
	ctx := context.Background()

	svc.AddItem(ctx, "s1", AddInput{ProductID: "7", Size: "M", Quantity: 1, Price: 499900})
	sess, _ := svc.AddItem(ctx, "s1", AddInput{ProductID: "7", Size: "L", Quantity: 1, Price: 499900})

	if len(sess.Items) != 2 {
		t.Fatalf("items = %d, want 2 lines for two sizes", len(sess.Items))
	}
}

func TestAddItemDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	defer svc.Close()

	sess, err := svc.AddItem(context.Background(), "s1", AddInput{ProductID: "7", Quantity: 0, Price: 100})
	if err != nil {
		t.Fatal(err)
	}
	if sess.Items[0].Size != "M" {
		t.Fatalf("size = %q, want default M", sess.Items[0].Size)
	}
	if sess.Items[0].Quantity != 1 {
		t.Fatalf("quantity = %d, want 1 for non-positive input", sess.Items[0].Quantity)
	}
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	svc, _, _ := newTestService()
	defer svc.Close()
	ctx := context.Background()

	svc.AddItem(ctx, "s1", AddInput{ProductID: "7", Size: "M", Quantity: 5, Price: 100})

	for _, q := range []int{0, -3} {
		sess, err := svc.UpdateQuantity(ctx, "s1", "7-M", q)
		if err != nil {
			t.Fatal(err)
		}
		if sess.Items[0].Quantity != 1 {
			t.Fatalf("quantity after update(%d) = %d, want 1", q, sess.Items[0].Quantity)
		}
	}

	sess, _ := svc.UpdateQuantity(ctx, "s1", "7-M", 4)
	if sess.Items[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", sess.Items[0].Quantity)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	defer svc.Close()
	ctx := context.Background()

	svc.AddItem(ctx, "s1", AddInput{ProductID: "7", Size: "M", Quantity: 1, Price: 100})

	sess, err := svc.RemoveItem(ctx, "s1", "7-M")
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(sess.Items))
	}

	// Second removal of the same key must not error.
	if _, err := svc.RemoveItem(ctx, "s1", "7-M"); err != nil {
		t.Fatalf("second remove errored: %v", err)
	}
}

func TestClearResetsCouponAndDiscount(t *testing.T) {
	svc, _, _ := newTestService()
	defer svc.Close()
	ctx := context.Background()

	svc.AddItem(ctx, "s1", AddInput{ProductID: "7", Size: "M", Quantity: 1, Price: 100000})
	svc.ApplyCoupon(ctx, "s1", models.AppliedCoupon{ID: "c1", Code: "SAVE20", Type: "percent", Value: 20}, 20000)

	sess, err := svc.Clear(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Items) != 0 || sess.Coupon != nil || sess.Discount != 0 {
		t.Fatalf("clear left state behind: %+v", sess)
	}
}

func TestRemoveCouponResetsDiscount(t *testing.T) {
	svc, _, _ := newTestService()
	defer svc.Close()
	ctx := context.Background()

	svc.ApplyCoupon(ctx, "s1", models.AppliedCoupon{ID: "c1", Code: "SAVE20"}, 20000)
	sess, err := svc.RemoveCoupon(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Coupon != nil || sess.Discount != 0 {
		t.Fatalf("coupon state survived removal: %+v", sess)
	}
}

func TestMutationsSyncToRemoteForSignedInUser(t *testing.T) {
	svc, _, remote := newTestService()
	ctx := context.Background()

	// Simulate a signed-in session.
	svc.OnAuthChange(ctx, "s1", "user-1")

	svc.AddItem(ctx, "s1", AddInput{ProductID: "7", Size: "M", Quantity: 2, Price: 499900})
	svc.Close() // drain the outbox

	row, ok := remote.row("user-1", "7-M")
	if !ok {
		t.Fatal("remote row missing after add")
	}
	if row.Quantity != 2 || row.Price != 499900 {
		t.Fatalf("remote row = %+v", row)
	}
}

func TestAnonymousMutationsStayLocal(t *testing.T) {
	svc, _, remote := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, "s1", AddInput{ProductID: "7", Size: "M", Quantity: 1, Price: 100})
	svc.Close()

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if remote.calls != 0 {
		t.Fatalf("remote saw %d calls for an anonymous session", remote.calls)
	}
}
