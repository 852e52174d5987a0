package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/store"
)

type fakeStock struct {
	reserved [][]models.CartItem
	released [][]models.CartItem
	err      error
}

func (f *fakeStock) Reserve(_ context.Context, items []models.CartItem) error {
	if f.err != nil {
		return f.err
	}
	f.reserved = append(f.reserved, items)
	return nil
}

func (f *fakeStock) Release(_ context.Context, items []models.CartItem) {
	f.released = append(f.released, items)
}

type fixedFee float64

func (f fixedFee) ShippingFee(context.Context) (float64, error) { return float64(f), nil }

func newTestManager(opts ...Option) (*Manager, store.Collection[models.Order]) {
	coll := store.NewBinCollection[models.Order](&store.MemoryBin{})
	return NewManager(coll, opts...), coll
}

func customer() models.OrderCustomer {
	return models.OrderCustomer{Name: "سارة", Phone: "+964 770 111 2233", Address: "بغداد"}
}

func TestSubmitCreatesPendingOrder(t *testing.T) {
	stock := &fakeStock{}
	m, _ := newTestManager(WithStock(stock), WithFees(fixedFee(5000)))

	c := cart.New(
		models.CartItem{ProductID: 1, Price: 100000, Quantity: 2, Source: models.SourceLocal},
		models.CartItem{ProductID: 2, Price: 50000, Quantity: 1, Source: models.SourceDubai},
	)
	order, err := m.Submit(context.Background(), customer(), c)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if order.ID == "" || order.Status != models.OrderPending {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.Subtotal != 250000 || order.ShippingFee != 5000 || order.Total != 255000 {
		t.Fatalf("unexpected totals %+v", order)
	}
	if order.Source != models.SourceDubai {
		t.Fatalf("expected dubai source for mixed cart, got %s", order.Source)
	}
	if order.UserID != "USER-9647701112233" {
		t.Fatalf("unexpected user id %q", order.UserID)
	}
	if len(stock.reserved) != 1 {
		t.Fatal("expected stock to be reserved")
	}
}

func TestSubmitValidation(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if _, err := m.Submit(ctx, customer(), cart.New()); err == nil {
		t.Fatal("expected error for empty cart")
	}

	noAddress := customer()
	noAddress.Address = "  "
	_, err := m.Submit(ctx, noAddress, cart.New(models.CartItem{ProductID: 1, Quantity: 1}))
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.Field != "address" {
		t.Fatalf("expected address validation error, got %v", err)
	}

	badPhone := customer()
	badPhone.Phone = "call me"
	if _, err := m.Submit(ctx, badPhone, cart.New(models.CartItem{ProductID: 1, Quantity: 1})); !errors.As(err, &verr) {
		t.Fatalf("expected phone validation error, got %v", err)
	}
}

func TestSubmitPropagatesOutOfStock(t *testing.T) {
	stock := &fakeStock{err: &apperr.OutOfStockError{ProductID: 1, Available: 0, Requested: 1}}
	m, coll := newTestManager(WithStock(stock))

	_, err := m.Submit(context.Background(), customer(), cart.New(models.CartItem{ProductID: 1, Quantity: 1, Source: models.SourceLocal}))
	var oos *apperr.OutOfStockError
	if !errors.As(err, &oos) {
		t.Fatalf("expected OutOfStockError, got %v", err)
	}
	all, _ := coll.All(context.Background())
	if len(all) != 0 {
		t.Fatal("no order should be stored when stock is missing")
	}
}

func TestSubmittedIDsAreDistinct(t *testing.T) {
	m, _ := newTestManager()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		o, err := m.Submit(context.Background(), customer(), cart.New(models.CartItem{ProductID: 1, Quantity: 1}))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if o.ID == "" || seen[o.ID] {
			t.Fatalf("duplicate or empty id %q", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestAdvanceFollowsSequence(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()
	order, err := m.Submit(ctx, customer(), cart.New(models.CartItem{ProductID: 1, Quantity: 1}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := m.Advance(ctx, order.ID, models.OrderShipped); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("skipping contacted must fail, got %v", err)
	}

	for _, next := range []models.OrderStatus{models.OrderContacted, models.OrderShipped, models.OrderDelivered} {
		if _, err := m.Advance(ctx, order.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}

	if _, err := m.Advance(ctx, order.ID, models.OrderDelivered); err != nil {
		t.Fatalf("repeating the current status should be a no-op, got %v", err)
	}
	if _, err := m.Advance(ctx, order.ID, models.OrderPending); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("moving backwards must fail, got %v", err)
	}
	if _, err := m.Advance(ctx, order.ID, models.OrderCancelled); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("cancelling a delivered order must fail, got %v", err)
	}
	if _, err := m.Advance(ctx, order.ID, "lost"); !errors.Is(err, apperr.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
	if _, err := m.Advance(ctx, "ORD-missing", models.OrderContacted); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelReleasesStock(t *testing.T) {
	stock := &fakeStock{}
	m, _ := newTestManager(WithStock(stock))
	ctx := context.Background()

	order, err := m.Submit(ctx, customer(), cart.New(models.CartItem{ProductID: 1, Quantity: 2, Source: models.SourceLocal}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := m.Advance(ctx, order.ID, models.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(stock.released) != 1 || stock.released[0][0].Quantity != 2 {
		t.Fatalf("expected stock release, got %+v", stock.released)
	}
	if _, err := m.Advance(ctx, order.ID, models.OrderContacted); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("cancelled is terminal, got %v", err)
	}
}

func TestListForIsolatesUsers(t *testing.T) {
	m, coll := newTestManager()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	err := coll.ReplaceAll(ctx, []models.Order{
		{ID: "A", UserID: "USER-111", Status: models.OrderPending, CreatedAt: base},
		{ID: "B", UserID: "USER-222", Status: models.OrderPending, CreatedAt: base.Add(time.Hour)},
		{ID: "C", UserID: "USER-111", Status: models.OrderPending, CreatedAt: base.Add(2 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	mine, err := m.ListFor(ctx, models.Viewer{UserID: "USER-111"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "C" || mine[1].ID != "A" {
		t.Fatalf("unexpected customer view %+v", mine)
	}

	anonymous, _ := m.ListFor(ctx, models.Viewer{})
	if len(anonymous) != 0 {
		t.Fatalf("anonymous viewer must see nothing, got %+v", anonymous)
	}

	all, _ := m.ListFor(ctx, models.Viewer{Admin: true})
	if len(all) != 3 || all[0].ID != "C" {
		t.Fatalf("unexpected admin view %+v", all)
	}
}

func TestRemove(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()
	order, _ := m.Submit(ctx, customer(), cart.New(models.CartItem{ProductID: 1, Quantity: 1}))

	if err := m.Remove(ctx, order.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.Remove(ctx, order.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestReplaceAllRejectsUnknownStatus(t *testing.T) {
	m, _ := newTestManager()
	err := m.ReplaceAll(context.Background(), []models.Order{{ID: "X", Status: "teleported"}})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
