package orders

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/apperr"
	"storefront/internal/cart"
	"storefront/internal/ids"
	"storefront/internal/models"
	"storefront/internal/store"
)

// StockKeeper reserves local stock for an order and gives it back when the
// order is cancelled or cannot be saved.
type StockKeeper interface {
	Reserve(ctx context.Context, items []models.CartItem) error
	Release(ctx context.Context, items []models.CartItem)
}

// UserRecorder upserts the phone-derived customer identity.
type UserRecorder interface {
	RecordCustomer(ctx context.Context, name, phone, address string) (models.User, error)
}

// FeeSource yields the shipping fee charged at submit time.
type FeeSource interface {
	ShippingFee(ctx context.Context) (float64, error)
}

// Observer is told about lifecycle events, e.g. to count them.
type Observer interface {
	OrderSubmitted(o models.Order)
	OrderAdvanced(from, to models.OrderStatus)
}

// Manager owns the order collection. Nil collaborators are skipped.
type Manager struct {
	orders   store.Collection[models.Order]
	stock    StockKeeper
	users    UserRecorder
	fees     FeeSource
	observer Observer
	newID    func() string
	now      func() time.Time
}

type Option func(*Manager)

func WithStock(s StockKeeper) Option {
	return func(m *Manager) { m.stock = s }
}

func WithUsers(u UserRecorder) Option {
	return func(m *Manager) { m.users = u }
}

func WithFees(f FeeSource) Option {
	return func(m *Manager) { m.fees = f }
}

func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(orders store.Collection[models.Order], opts ...Option) *Manager {
	m := &Manager{
		orders: orders,
		newID:  ids.NewOrderID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func validateCustomer(c models.OrderCustomer) error {
	if err := apperr.Required("name", c.Name, "phone", c.Phone, "address", c.Address); err != nil {
		return err
	}
	if models.UserIDFromPhone(c.Phone) == "" {
		return apperr.Invalid("phone", "must contain digits")
	}
	return nil
}

// Submit turns a cart into a pending order.
func (m *Manager) Submit(ctx context.Context, customer models.OrderCustomer, c *cart.Cart) (models.Order, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.Address = strings.TrimSpace(customer.Address)
	customer.Notes = strings.TrimSpace(customer.Notes)

	if c == nil || c.Empty() {
		return models.Order{}, apperr.Invalid("items", "cart is empty")
	}
	if err := validateCustomer(customer); err != nil {
		return models.Order{}, err
	}

	userID := models.UserIDFromPhone(customer.Phone)
	if m.users != nil {
		user, err := m.users.RecordCustomer(ctx, customer.Name, customer.Phone, customer.Address)
		if err != nil {
			return models.Order{}, fmt.Errorf("record customer: %w", err)
		}
		userID = user.ID
	}

	fee := 0.0
	if m.fees != nil {
		var err error
		if fee, err = m.fees.ShippingFee(ctx); err != nil {
			return models.Order{}, fmt.Errorf("shipping fee: %w", err)
		}
	}

	items := c.Items()
	if m.stock != nil {
		if err := m.stock.Reserve(ctx, items); err != nil {
			return models.Order{}, err
		}
	}

	subtotal := c.Subtotal()
	now := m.now().UTC()
	order := models.Order{
		ID:          m.newID(),
		Customer:    customer,
		Items:       items,
		Subtotal:    subtotal.InexactFloat64(),
		ShippingFee: fee,
		Total:       subtotal.Add(decimal.NewFromFloat(fee)).InexactFloat64(),
		Status:      models.OrderPending,
		Source:      c.Source(),
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.orders.Put(ctx, order); err != nil {
		if m.stock != nil {
			m.stock.Release(ctx, items)
		}
		return models.Order{}, fmt.Errorf("save order: %w", err)
	}

	log.Printf("[ORDER] [INFO] order %s submitted by %s (%d items, total %.2f)", order.ID, order.UserID, len(order.Items), order.Total)
	if m.observer != nil {
		m.observer.OrderSubmitted(order)
	}
	return order, nil
}

// Advance moves an order to status. Only the next step in the sequence or a
// cancellation of a non-terminal order is accepted. Repeating the current
// status is a no-op.
func (m *Manager) Advance(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", apperr.ErrUnknownStatus, status)
	}

	var from models.OrderStatus
	order, err := store.Update(ctx, m.orders, id, func(o *models.Order) error {
		from = o.Status
		if o.Status == status {
			return nil
		}
		if !o.Status.CanAdvanceTo(status) {
			return fmt.Errorf("%w: %s to %s", apperr.ErrInvalidTransition, o.Status, status)
		}
		o.Status = status
		o.UpdatedAt = m.now().UTC()
		return nil
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s: %w", id, err)
	}

	if from == status {
		return order, nil
	}
	log.Printf("[ORDER] [INFO] order %s moved %s -> %s", id, from, status)
	if status == models.OrderCancelled && m.stock != nil {
		m.stock.Release(ctx, order.Items)
	}
	if m.observer != nil {
		m.observer.OrderAdvanced(from, status)
	}
	return order, nil
}

// Remove hard-deletes an order.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if err := m.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("order %s: %w", id, err)
	}
	log.Printf("[ORDER] [INFO] order %s deleted", id)
	return nil
}

func (m *Manager) Get(ctx context.Context, id string) (models.Order, error) {
	o, err := m.orders.Get(ctx, id)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s: %w", id, err)
	}
	return o, nil
}

// ListFor returns the orders the viewer may see, newest first.
func (m *Manager) ListFor(ctx context.Context, viewer models.Viewer) ([]models.Order, error) {
	all, err := m.orders.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	visible := make([]models.Order, 0, len(all))
	for _, o := range all {
		if viewer.Sees(o.UserID) {
			visible = append(visible, o)
		}
	}
	slices.SortStableFunc(visible, func(a, b models.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return visible, nil
}

// All returns the raw collection, for the sync endpoint.
func (m *Manager) All(ctx context.Context) ([]models.Order, error) {
	return m.orders.All(ctx)
}

// ReplaceAll overwrites the whole collection. Every record must carry an id
// and a known status.
func (m *Manager) ReplaceAll(ctx context.Context, orders []models.Order) error {
	for i, o := range orders {
		if strings.TrimSpace(o.ID) == "" {
			return apperr.Invalid(fmt.Sprintf("[%d].id", i), "is required")
		}
		if o.Status == "" {
			orders[i].Status = models.OrderPending
		} else if !o.Status.Valid() {
			return apperr.Invalid(fmt.Sprintf("[%d].status", i), "unknown status "+string(o.Status))
		}
	}
	if err := m.orders.ReplaceAll(ctx, orders); err != nil {
		return fmt.Errorf("replace orders: %w", err)
	}
	return nil
}
