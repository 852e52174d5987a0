package models

import "time"

// RequestStatus is the canonical lifecycle of a Dubai sourcing request.
// Customer-facing wording is derived from it with CustomerLabel.
type RequestStatus string

const (
	RequestNew       RequestStatus = "new"
	RequestSearching RequestStatus = "searching"
	RequestPurchased RequestStatus = "purchased"
	RequestShipping  RequestStatus = "shipping"
	RequestReady     RequestStatus = "ready"
	RequestCancelled RequestStatus = "cancelled"
)

var requestFlow = []RequestStatus{RequestNew, RequestSearching, RequestPurchased, RequestShipping, RequestReady}

func (s RequestStatus) Valid() bool {
	return known(requestFlow, RequestCancelled, s)
}

func (s RequestStatus) Terminal() bool {
	return terminal(requestFlow, RequestCancelled, s)
}

func (s RequestStatus) CanAdvanceTo(next RequestStatus) bool {
	return s.Valid() && next.Valid() && canAdvance(requestFlow, RequestCancelled, s, next)
}

// Quotable reports whether a quote may be attached in this state.
func (s RequestStatus) Quotable() bool {
	return s == RequestNew || s == RequestSearching
}

func (s RequestStatus) Label() string {
	switch s {
	case RequestNew:
		return "جديد"
	case RequestSearching:
		return "جاري البحث"
	case RequestPurchased:
		return "تم الشراء"
	case RequestShipping:
		return "قيد الشحن"
	case RequestReady:
		return "جاهز للاستلام"
	case RequestCancelled:
		return "ملغي"
	default:
		return string(s)
	}
}

// Customer-facing status vocabulary.
const (
	CustomerStatusNew       = "new"
	CustomerStatusQuoted    = "quoted"
	CustomerStatusPurchased = "purchased"
	CustomerStatusArrived   = "arrived"
	CustomerStatusCancelled = "cancelled"
)

// CustomerStatus maps the canonical status onto the account page vocabulary.
func (s RequestStatus) CustomerStatus() string {
	switch s {
	case RequestSearching:
		return CustomerStatusQuoted
	case RequestPurchased, RequestShipping:
		return CustomerStatusPurchased
	case RequestReady:
		return CustomerStatusArrived
	case RequestCancelled:
		return CustomerStatusCancelled
	default:
		return CustomerStatusNew
	}
}

func (s RequestStatus) CustomerLabel() string {
	switch s.CustomerStatus() {
	case CustomerStatusQuoted:
		return "تم التسعير"
	case CustomerStatusPurchased:
		return "تم الشراء"
	case CustomerStatusArrived:
		return "وصل"
	case CustomerStatusCancelled:
		return "ملغي"
	default:
		return "جديد"
	}
}

// Quote is the admin-attached price and shipping cost pair. It only exists as
// a whole, so a request can never carry one value without the other.
type Quote struct {
	Price        float64   `bson:"price" json:"price"`
	ShippingCost float64   `bson:"shippingCost" json:"shippingCost"`
	QuotedAt     time.Time `bson:"quotedAt" json:"quotedAt"`
}

func (q Quote) Total() float64 {
	return q.Price + q.ShippingCost
}

type DubaiRequest struct {
	ID           string        `bson:"_id" json:"id"`
	CustomerName string        `bson:"customerName" json:"customerName"`
	Phone        string        `bson:"phone" json:"phone"`
	ProductName  string        `bson:"productName" json:"productName"`
	Description  string        `bson:"description,omitempty" json:"description,omitempty"`
	Link         string        `bson:"link,omitempty" json:"link,omitempty"`
	Budget       string        `bson:"budget,omitempty" json:"budget,omitempty"`
	Image        string        `bson:"image,omitempty" json:"image,omitempty"`
	Status       RequestStatus `bson:"status" json:"status"`
	Quote        *Quote        `bson:"quote,omitempty" json:"quote,omitempty"`
	UserID       string        `bson:"userId" json:"userId"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func (r DubaiRequest) Key() string {
	return r.ID
}
