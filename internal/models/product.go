package models

import (
	"strconv"
	"time"
)

type Product struct {
	ID               int64      `bson:"_id" json:"id"`
	Name             string     `bson:"name" json:"name"`
	Brand            string     `bson:"brand,omitempty" json:"brand,omitempty"`
	Description      string     `bson:"description,omitempty" json:"description,omitempty"`
	Price            float64    `bson:"price" json:"price"`
	OriginalPrice    float64    `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Quantity         int        `bson:"quantity" json:"quantity"`
	Category         Category   `bson:"category" json:"category"`
	Source           Source     `bson:"source" json:"source"`
	Images           StringList `bson:"images" json:"images"`
	Video            string     `bson:"video,omitempty" json:"video,omitempty"`
	Gender           string     `bson:"gender,omitempty" json:"gender,omitempty"`
	ShippingDuration string     `bson:"shippingDuration,omitempty" json:"shippingDuration,omitempty"`
	IsFullSet        bool       `bson:"isFullSet" json:"isFullSet"`

	// glasses
	LensType      string `bson:"lensType,omitempty" json:"lensType,omitempty"`
	FrameMaterial string `bson:"frameMaterial,omitempty" json:"frameMaterial,omitempty"`
	FrameShape    string `bson:"frameShape,omitempty" json:"frameShape,omitempty"`

	// watches
	MovementType  string `bson:"movementType,omitempty" json:"movementType,omitempty"`
	StrapMaterial string `bson:"strapMaterial,omitempty" json:"strapMaterial,omitempty"`
	CaseMaterial  string `bson:"caseMaterial,omitempty" json:"caseMaterial,omitempty"`

	// perfumes
	Longevity  string   `bson:"longevity,omitempty" json:"longevity,omitempty"`
	Volume     string   `bson:"volume,omitempty" json:"volume,omitempty"`
	ScentNotes []string `bson:"scentNotes,omitempty" json:"scentNotes,omitempty"`

	IsOnSale  bool      `bson:"-" json:"isOnSale"`
	InStock   bool      `bson:"-" json:"inStock"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p Product) Key() string {
	return strconv.FormatInt(p.ID, 10)
}

// Cover is the first image, used for cart snapshots and listings.
func (p Product) Cover() string {
	return p.Images.First()
}

// Normalize recomputes the derived flags and drops attributes that belong to
// another category.
func (p *Product) Normalize() {
	p.IsOnSale = p.OriginalPrice > 0 && p.OriginalPrice > p.Price
	p.InStock = p.Source == SourceDubai || p.Quantity > 0

	if p.Category != CategoryGlasses {
		p.LensType, p.FrameMaterial, p.FrameShape = "", "", ""
	}
	if p.Category != CategoryWatches {
		p.MovementType, p.StrapMaterial, p.CaseMaterial = "", "", ""
	}
	if p.Category != CategoryPerfumes {
		p.Longevity, p.Volume, p.ScentNotes = "", "", nil
	}
}
