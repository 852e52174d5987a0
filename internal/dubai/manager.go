package dubai

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/ids"
	"storefront/internal/models"
	"storefront/internal/store"
)

// UserRecorder upserts the phone-derived customer identity.
type UserRecorder interface {
	RecordCustomer(ctx context.Context, name, phone, address string) (models.User, error)
}

// Observer is told about lifecycle events.
type Observer interface {
	RequestSubmitted(r models.DubaiRequest)
	RequestQuoted(r models.DubaiRequest)
	RequestAdvanced(from, to models.RequestStatus)
}

// Input is what a customer submits to ask for an item to be sourced.
type Input struct {
	CustomerName string `json:"customerName" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	ProductName  string `json:"productName" binding:"required"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Budget       string `json:"budget"`
	Image        string `json:"image"`
}

// Manager owns the Dubai request collection.
type Manager struct {
	requests store.Collection[models.DubaiRequest]
	users    UserRecorder
	observer Observer
	newID    func() string
	now      func() time.Time
}

type Option func(*Manager)

func WithUsers(u UserRecorder) Option {
	return func(m *Manager) { m.users = u }
}

func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(requests store.Collection[models.DubaiRequest], opts ...Option) *Manager {
	m := &Manager{
		requests: requests,
		newID:    ids.NewRequestID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (in Input) trimmed() Input {
	return Input{
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		ProductName:  strings.TrimSpace(in.ProductName),
		Description:  strings.TrimSpace(in.Description),
		Link:         strings.TrimSpace(in.Link),
		Budget:       strings.TrimSpace(in.Budget),
		Image:        strings.TrimSpace(in.Image),
	}
}

// Submit stores a new request with status new.
func (m *Manager) Submit(ctx context.Context, in Input) (models.DubaiRequest, error) {
	in = in.trimmed()
	if err := apperr.Required("customerName", in.CustomerName, "phone", in.Phone, "productName", in.ProductName); err != nil {
		return models.DubaiRequest{}, err
	}
	userID := models.UserIDFromPhone(in.Phone)
	if userID == "" {
		return models.DubaiRequest{}, apperr.Invalid("phone", "must contain digits")
	}

	if m.users != nil {
		user, err := m.users.RecordCustomer(ctx, in.CustomerName, in.Phone, "")
		if err != nil {
			return models.DubaiRequest{}, fmt.Errorf("record customer: %w", err)
		}
		userID = user.ID
	}

	now := m.now().UTC()
	req := models.DubaiRequest{
		ID:           m.newID(),
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		ProductName:  in.ProductName,
		Description:  in.Description,
		Link:         in.Link,
		Budget:       in.Budget,
		Image:        in.Image,
		Status:       models.RequestNew,
		UserID:       userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.requests.Put(ctx, req); err != nil {
		return models.DubaiRequest{}, fmt.Errorf("save request: %w", err)
	}

	log.Printf("[DUBAI] [INFO] request %s submitted by %s: %s", req.ID, req.UserID, req.ProductName)
	if m.observer != nil {
		m.observer.RequestSubmitted(req)
	}
	return req, nil
}

// Quote attaches a price and shipping cost in one write and moves the
// request to searching. Re-quoting a searching request replaces the quote.
func (m *Manager) Quote(ctx context.Context, id string, price, shippingCost float64) (models.DubaiRequest, error) {
	if price <= 0 {
		return models.DubaiRequest{}, apperr.Invalid("price", "must be greater than 0")
	}
	if shippingCost < 0 {
		return models.DubaiRequest{}, apperr.Invalid("shippingCost", "must not be negative")
	}

	req, err := store.Update(ctx, m.requests, id, func(r *models.DubaiRequest) error {
		if !r.Status.Quotable() {
			return fmt.Errorf("%w: cannot quote a %s request", apperr.ErrInvalidTransition, r.Status)
		}
		now := m.now().UTC()
		r.Quote = &models.Quote{Price: price, ShippingCost: shippingCost, QuotedAt: now}
		r.Status = models.RequestSearching
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return models.DubaiRequest{}, fmt.Errorf("request %s: %w", id, err)
	}

	log.Printf("[DUBAI] [INFO] request %s quoted %.2f + %.2f shipping", id, price, shippingCost)
	if m.observer != nil {
		m.observer.RequestQuoted(req)
	}
	return req, nil
}

// Advance applies the same policy as orders on the request sequence.
func (m *Manager) Advance(ctx context.Context, id string, status models.RequestStatus) (models.DubaiRequest, error) {
	if !status.Valid() {
		return models.DubaiRequest{}, fmt.Errorf("%w: %q", apperr.ErrUnknownStatus, status)
	}

	var from models.RequestStatus
	req, err := store.Update(ctx, m.requests, id, func(r *models.DubaiRequest) error {
		from = r.Status
		if r.Status == status {
			return nil
		}
		if !r.Status.CanAdvanceTo(status) {
			return fmt.Errorf("%w: %s to %s", apperr.ErrInvalidTransition, r.Status, status)
		}
		if status == models.RequestSearching && r.Quote == nil {
			return fmt.Errorf("%w: quote the request before moving it to %s", apperr.ErrInvalidTransition, status)
		}
		r.Status = status
		r.UpdatedAt = m.now().UTC()
		return nil
	})
	if err != nil {
		return models.DubaiRequest{}, fmt.Errorf("request %s: %w", id, err)
	}

	if from != status {
		log.Printf("[DUBAI] [INFO] request %s moved %s -> %s", id, from, status)
		if m.observer != nil {
			m.observer.RequestAdvanced(from, status)
		}
	}
	return req, nil
}

func (m *Manager) Remove(ctx context.Context, id string) error {
	if err := m.requests.Delete(ctx, id); err != nil {
		return fmt.Errorf("request %s: %w", id, err)
	}
	log.Printf("[DUBAI] [INFO] request %s deleted", id)
	return nil
}

func (m *Manager) Get(ctx context.Context, id string) (models.DubaiRequest, error) {
	r, err := m.requests.Get(ctx, id)
	if err != nil {
		return models.DubaiRequest{}, fmt.Errorf("request %s: %w", id, err)
	}
	return r, nil
}

// ListFor returns the requests the viewer may see, newest first.
func (m *Manager) ListFor(ctx context.Context, viewer models.Viewer) ([]models.DubaiRequest, error) {
	all, err := m.requests.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	visible := make([]models.DubaiRequest, 0, len(all))
	for _, r := range all {
		if viewer.Sees(r.UserID) {
			visible = append(visible, r)
		}
	}
	slices.SortStableFunc(visible, func(a, b models.DubaiRequest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return visible, nil
}

func (m *Manager) All(ctx context.Context) ([]models.DubaiRequest, error) {
	return m.requests.All(ctx)
}

func (m *Manager) ReplaceAll(ctx context.Context, requests []models.DubaiRequest) error {
	for i, r := range requests {
		if strings.TrimSpace(r.ID) == "" {
			return apperr.Invalid(fmt.Sprintf("[%d].id", i), "is required")
		}
		if r.Status == "" {
			requests[i].Status = models.RequestNew
		} else if !r.Status.Valid() {
			return apperr.Invalid(fmt.Sprintf("[%d].status", i), "unknown status "+string(r.Status))
		}
	}
	if err := m.requests.ReplaceAll(ctx, requests); err != nil {
		return fmt.Errorf("replace requests: %w", err)
	}
	return nil
}

// CustomerView is a request as shown on the customer's account page, with
// the status translated to the customer vocabulary.
type CustomerView struct {
	ID          string        `json:"id"`
	ProductName string        `json:"productName"`
	Description string        `json:"description,omitempty"`
	Link        string        `json:"link,omitempty"`
	Budget      string        `json:"budget,omitempty"`
	Image       string        `json:"image,omitempty"`
	Status      string        `json:"status"`
	StatusLabel string        `json:"statusLabel"`
	Quote       *models.Quote `json:"quote,omitempty"`
	QuoteTotal  float64       `json:"quoteTotal,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func ForCustomer(r models.DubaiRequest) CustomerView {
	status := r.Status
	if status == models.RequestSearching && r.Quote == nil {
		// Imported records can be searching without a price.
		status = models.RequestNew
	}
	v := CustomerView{
		ID:          r.ID,
		ProductName: r.ProductName,
		Description: r.Description,
		Link:        r.Link,
		Budget:      r.Budget,
		Image:       r.Image,
		Status:      status.CustomerStatus(),
		StatusLabel: status.CustomerLabel(),
		Quote:       r.Quote,
		CreatedAt:   r.CreatedAt,
	}
	if r.Quote != nil {
		v.QuoteTotal = r.Quote.Total()
	}
	return v
}
