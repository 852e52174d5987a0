package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/ids"
	"storefront/internal/models"
	"storefront/internal/store"
)

// Service owns the product collection.
type Service struct {
	products store.Collection[models.Product]
	seq      *ids.Sequence
	now      func() time.Time
}

// NewService seeds the id sequence from the largest stored product id.
func NewService(ctx context.Context, products store.Collection[models.Product]) (*Service, error) {
	s := &Service{
		products: products,
		seq:      ids.NewSequence(),
		now:      time.Now,
	}
	all, err := products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	s.seedFrom(all)
	return s, nil
}

func (s *Service) seedFrom(products []models.Product) {
	for _, p := range products {
		s.seq.Seed(p.ID)
	}
}

// ProductInput is the admin payload for a new product.
type ProductInput struct {
	Name             string          `json:"name" binding:"required"`
	Brand            string          `json:"brand"`
	Description      string          `json:"description"`
	Price            float64         `json:"price" binding:"required,gt=0"`
	OriginalPrice    float64         `json:"originalPrice" binding:"gte=0"`
	Quantity         int             `json:"quantity" binding:"gte=0"`
	Category         models.Category `json:"category" binding:"required"`
	Source           models.Source   `json:"source" binding:"required"`
	Images           []string        `json:"images"`
	Video            string          `json:"video"`
	Gender           string          `json:"gender"`
	ShippingDuration string          `json:"shippingDuration"`
	IsFullSet        bool            `json:"isFullSet"`
	LensType         string          `json:"lensType"`
	FrameMaterial    string          `json:"frameMaterial"`
	FrameShape       string          `json:"frameShape"`
	MovementType     string          `json:"movementType"`
	StrapMaterial    string          `json:"strapMaterial"`
	CaseMaterial     string          `json:"caseMaterial"`
	Longevity        string          `json:"longevity"`
	Volume           string          `json:"volume"`
	ScentNotes       []string        `json:"scentNotes"`
}

// ProductPatch carries the fields an admin edit changes. Nil fields are kept.
type ProductPatch struct {
	Name             *string          `json:"name"`
	Brand            *string          `json:"brand"`
	Description      *string          `json:"description"`
	Price            *float64         `json:"price"`
	OriginalPrice    *float64         `json:"originalPrice"`
	Quantity         *int             `json:"quantity"`
	Category         *models.Category `json:"category"`
	Source           *models.Source   `json:"source"`
	Images           *[]string        `json:"images"`
	Video            *string          `json:"video"`
	Gender           *string          `json:"gender"`
	ShippingDuration *string          `json:"shippingDuration"`
	IsFullSet        *bool            `json:"isFullSet"`
	LensType         *string          `json:"lensType"`
	FrameMaterial    *string          `json:"frameMaterial"`
	FrameShape       *string          `json:"frameShape"`
	MovementType     *string          `json:"movementType"`
	StrapMaterial    *string          `json:"strapMaterial"`
	CaseMaterial     *string          `json:"caseMaterial"`
	Longevity        *string          `json:"longevity"`
	Volume           *string          `json:"volume"`
	ScentNotes       *[]string        `json:"scentNotes"`
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (in ProductInput) product() models.Product {
	return models.Product{
		Name:             strings.TrimSpace(in.Name),
		Brand:            strings.TrimSpace(in.Brand),
		Description:      strings.TrimSpace(in.Description),
		Price:            in.Price,
		OriginalPrice:    in.OriginalPrice,
		Quantity:         in.Quantity,
		Category:         in.Category,
		Source:           in.Source,
		Images:           models.StringList(in.Images).Compact(),
		Video:            strings.TrimSpace(in.Video),
		Gender:           strings.TrimSpace(in.Gender),
		ShippingDuration: strings.TrimSpace(in.ShippingDuration),
		IsFullSet:        in.IsFullSet,
		LensType:         in.LensType,
		FrameMaterial:    in.FrameMaterial,
		FrameShape:       in.FrameShape,
		MovementType:     in.MovementType,
		StrapMaterial:    in.StrapMaterial,
		CaseMaterial:     in.CaseMaterial,
		Longevity:        in.Longevity,
		Volume:           in.Volume,
		ScentNotes:       in.ScentNotes,
	}
}

// Apply writes the non-nil fields of patch onto p. Prices are merged
// separately so the pair can be validated together.
func (patch ProductPatch) Apply(p *models.Product) error {
	prices, err := resolvePriceUpdate(p.Price, p.OriginalPrice, priceUpdateInput{
		Price:         patch.Price,
		OriginalPrice: patch.OriginalPrice,
	})
	if err != nil {
		return err
	}
	p.Price, p.OriginalPrice = prices.Price, prices.OriginalPrice

	setIf(&p.Name, patch.Name)
	setIf(&p.Brand, patch.Brand)
	setIf(&p.Description, patch.Description)
	setIf(&p.Quantity, patch.Quantity)
	setIf(&p.Category, patch.Category)
	setIf(&p.Source, patch.Source)
	setIf(&p.Video, patch.Video)
	setIf(&p.Gender, patch.Gender)
	setIf(&p.ShippingDuration, patch.ShippingDuration)
	setIf(&p.IsFullSet, patch.IsFullSet)
	setIf(&p.LensType, patch.LensType)
	setIf(&p.FrameMaterial, patch.FrameMaterial)
	setIf(&p.FrameShape, patch.FrameShape)
	setIf(&p.MovementType, patch.MovementType)
	setIf(&p.StrapMaterial, patch.StrapMaterial)
	setIf(&p.CaseMaterial, patch.CaseMaterial)
	setIf(&p.Longevity, patch.Longevity)
	setIf(&p.Volume, patch.Volume)
	setIf(&p.ScentNotes, patch.ScentNotes)
	if patch.Images != nil {
		p.Images = models.StringList(*patch.Images).Compact()
	}
	return nil
}

// Validate checks the rules enforced on every admin write.
func Validate(p models.Product) error {
	if err := apperr.Required("name", p.Name); err != nil {
		return err
	}
	if err := validatePricing(p.Price, p.OriginalPrice); err != nil {
		return err
	}
	if p.Quantity < 0 {
		return apperr.Invalid("quantity", "must not be negative")
	}
	if !p.Category.Valid() {
		return apperr.Invalid("category", "must be one of perfumes, watches, glasses")
	}
	if !p.Source.Valid() {
		return apperr.Invalid("source", "must be local or dubai")
	}
	if !models.ValidGender(p.Gender) {
		return apperr.Invalid("gender", "must be men, women or unisex")
	}
	if p.Source == models.SourceDubai && strings.TrimSpace(p.ShippingDuration) == "" {
		return apperr.Invalid("shippingDuration", "is required for dubai products")
	}
	if len(p.Images) == 0 {
		return apperr.Invalid("images", "at least one image is required")
	}
	return nil
}

func parseKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// List returns the catalog narrowed by f.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Product, error) {
	all, err := s.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return Apply(all, f), nil
}

// All returns every product in storage order.
func (s *Service) All(ctx context.Context) ([]models.Product, error) {
	all, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].Normalize()
	}
	return all, nil
}

func (s *Service) Get(ctx context.Context, id int64) (models.Product, error) {
	p, err := s.products.Get(ctx, parseKey(id))
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d: %w", id, err)
	}
	p.Normalize()
	return p, nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	p := in.product()
	p.Normalize()
	if err := Validate(p); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC()
	p.ID = s.seq.Next()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.products.Put(ctx, p); err != nil {
		return models.Product{}, fmt.Errorf("save product: %w", err)
	}
	log.Printf("[CATALOG] [INFO] created product %d (%s/%s)", p.ID, p.Category, p.Source)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch ProductPatch) (models.Product, error) {
	p, err := store.Update(ctx, s.products, parseKey(id), func(p *models.Product) error {
		if err := patch.Apply(p); err != nil {
			return err
		}
		p.Normalize()
		if err := Validate(*p); err != nil {
			return err
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.products.Delete(ctx, parseKey(id)); err != nil {
		return models.Product{}, fmt.Errorf("product %d: %w", id, err)
	}
	log.Printf("[CATALOG] [INFO] deleted product %d", id)
	return p, nil
}

// Brands lists the distinct brands, optionally within one category.
func (s *Service) Brands(ctx context.Context, category models.Category) ([]string, error) {
	all, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	brands := make([]string, 0)
	for _, p := range all {
		if category != "" && p.Category != category {
			continue
		}
		brand := strings.TrimSpace(p.Brand)
		key := strings.ToLower(brand)
		if brand == "" || seen[key] {
			continue
		}
		seen[key] = true
		brands = append(brands, brand)
	}
	slices.SortFunc(brands, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return brands, nil
}

// Snapshot builds a cart line from the current catalog record, so clients
// can never set their own price.
func (s *Service) Snapshot(ctx context.Context, id int64, qty int) (models.CartItem, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return models.CartItem{}, err
	}
	return models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Cover(),
		Quantity:  qty,
		Source:    p.Source,
	}, nil
}

// Reserve decrements stock for every local line. Either every line is
// reserved or none is.
func (s *Service) Reserve(ctx context.Context, items []models.CartItem) error {
	reserved := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Source != models.SourceLocal {
			continue
		}
		if item.Quantity <= 0 {
			s.Release(ctx, reserved)
			return apperr.Invalid("quantity", fmt.Sprintf("product %d: must be at least 1", item.ProductID))
		}
		_, err := store.Update(ctx, s.products, parseKey(item.ProductID), func(p *models.Product) error {
			if p.Quantity < item.Quantity {
				return &apperr.OutOfStockError{
					ProductID: p.ID,
					Available: p.Quantity,
					Requested: item.Quantity,
				}
			}
			p.Quantity -= item.Quantity
			p.UpdatedAt = s.now().UTC()
			return nil
		})
		if err != nil {
			s.Release(ctx, reserved)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("product %d: %w", item.ProductID, err)
			}
			return err
		}
		reserved = append(reserved, item)
	}
	return nil
}

// Release gives back stock taken by Reserve. Dubai lines were never
// reserved and are skipped.
func (s *Service) Release(ctx context.Context, items []models.CartItem) {
	for _, item := range items {
		if item.Source != models.SourceLocal || item.Quantity <= 0 {
			continue
		}
		_, err := store.Update(ctx, s.products, parseKey(item.ProductID), func(p *models.Product) error {
			p.Quantity += item.Quantity
			return nil
		})
		if err != nil {
			log.Printf("[CATALOG] [ERROR] release %d units of product %d: %v", item.Quantity, item.ProductID, err)
		}
	}
}

// ReplaceAll overwrites the whole catalog, as used by the sync endpoint.
func (s *Service) ReplaceAll(ctx context.Context, products []models.Product) error {
	now := s.now().UTC()
	for i := range products {
		if products[i].ID == 0 {
			products[i].ID = s.seq.Next()
		}
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = now
		}
		products[i].Normalize()
	}
	if err := s.products.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("replace products: %w", err)
	}
	s.seedFrom(products)
	return nil
}
