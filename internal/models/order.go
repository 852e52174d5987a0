package models

import (
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderContacted OrderStatus = "contacted"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderFlow = []OrderStatus{OrderPending, OrderContacted, OrderShipped, OrderDelivered}

func (s OrderStatus) Valid() bool {
	return known(orderFlow, OrderCancelled, s)
}

func (s OrderStatus) Terminal() bool {
	return terminal(orderFlow, OrderCancelled, s)
}

// CanAdvanceTo reports whether an admin may move an order from s to next.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	return s.Valid() && next.Valid() && canAdvance(orderFlow, OrderCancelled, s, next)
}

func (s OrderStatus) Label() string {
	switch s {
	case OrderPending:
		return "قيد الانتظار"
	case OrderContacted:
		return "تم التواصل"
	case OrderShipped:
		return "تم الشحن"
	case OrderDelivered:
		return "تم التسليم"
	case OrderCancelled:
		return "ملغي"
	default:
		return string(s)
	}
}

// CartItem is a denormalized product snapshot taken when the item is added to
// the cart. Orders keep these snapshots unchanged.
type CartItem struct {
	ProductID int64   `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Source    Source  `bson:"source" json:"source"`
}

// OrderCustomer captures the contact details typed at checkout.
type OrderCustomer struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
	Notes   string `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Order struct {
	ID          string        `bson:"_id" json:"id"`
	Customer    OrderCustomer `bson:"customer" json:"customer"`
	Items       []CartItem    `bson:"items" json:"items"`
	Subtotal    float64       `bson:"subtotal" json:"subtotal"`
	ShippingFee float64       `bson:"shippingFee" json:"shippingFee"`
	Total       float64       `bson:"total" json:"total"`
	Status      OrderStatus   `bson:"status" json:"status"`
	Source      Source        `bson:"source" json:"source"`
	UserID      string        `bson:"userId" json:"userId"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func (o Order) Key() string {
	return o.ID
}
