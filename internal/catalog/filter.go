package catalog

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// Sort orders accepted by Filter.Sort. The empty value is the default
// catalog order.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// Filter is the set of active catalog predicates. Empty fields are inactive.
type Filter struct {
	Categories     []models.Category
	Sources        []models.Source
	Brands         []string
	Genders        []string
	FrameShapes    []string
	MovementTypes  []string
	StrapMaterials []string
	PriceMin       float64
	PriceMax       float64
	OnSale         bool
	InStock        bool
	Query          string
	Sort           string
}

type Predicate func(models.Product) bool

func anyOf[T comparable](values []T, v T) bool {
	return len(values) == 0 || slices.Contains(values, v)
}

func anyFold(values []string, v string) bool {
	if len(values) == 0 {
		return true
	}
	for _, candidate := range values {
		if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

// Predicates returns one predicate per active field.
func (f Filter) Predicates() []Predicate {
	var preds []Predicate

	if len(f.Categories) > 0 {
		preds = append(preds, func(p models.Product) bool { return anyOf(f.Categories, p.Category) })
	}
	if len(f.Sources) > 0 {
		preds = append(preds, func(p models.Product) bool { return anyOf(f.Sources, p.Source) })
	}
	if len(f.Brands) > 0 {
		preds = append(preds, func(p models.Product) bool { return anyFold(f.Brands, p.Brand) })
	}
	if len(f.Genders) > 0 {
		preds = append(preds, func(p models.Product) bool { return anyFold(f.Genders, p.Gender) })
	}
	if len(f.FrameShapes) > 0 {
		preds = append(preds, func(p models.Product) bool { return anyFold(f.FrameShapes, p.FrameShape) })
	}
	if len(f.MovementTypes) > 0 {
		preds = append(preds, func(p models.Product) bool { return anyFold(f.MovementTypes, p.MovementType) })
	}
	if len(f.StrapMaterials) > 0 {
		preds = append(preds, func(p models.Product) bool { return anyFold(f.StrapMaterials, p.StrapMaterial) })
	}
	if f.PriceMin > 0 {
		preds = append(preds, func(p models.Product) bool { return p.Price >= f.PriceMin })
	}
	if f.PriceMax > 0 {
		preds = append(preds, func(p models.Product) bool { return p.Price <= f.PriceMax })
	}
	if f.OnSale {
		preds = append(preds, func(p models.Product) bool { return p.IsOnSale })
	}
	if f.InStock {
		preds = append(preds, func(p models.Product) bool { return p.InStock })
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		preds = append(preds, func(p models.Product) bool { return matchesQuery(p, q) })
	}

	return preds
}

// matchesQuery is a case-insensitive substring match on name, brand and
// description. q must already be lower-cased.
func matchesQuery(p models.Product, q string) bool {
	for _, field := range []string{p.Name, p.Brand, p.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Match reports whether p satisfies every active predicate.
func (f Filter) Match(p models.Product) bool {
	for _, pred := range f.Predicates() {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Apply returns the products matching all predicates of f, sorted. The input
// slice is left untouched.
func Apply(products []models.Product, f Filter) []models.Product {
	preds := f.Predicates()
	out := make([]models.Product, 0, len(products))

next:
	for _, p := range products {
		p.Normalize()
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}

	SortProducts(out, f.Sort)
	return out
}

func newestFirst(a, b models.Product) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// SortProducts sorts in place. Unknown orders fall back to the default
// category priority, newest first within a category.
func SortProducts(products []models.Product, order string) {
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			if c := cmp.Compare(a.Price, b.Price); c != 0 {
				return c
			}
			return newestFirst(a, b)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			if c := cmp.Compare(b.Price, a.Price); c != 0 {
				return c
			}
			return newestFirst(a, b)
		})
	case SortNewest:
		slices.SortStableFunc(products, newestFirst)
	default:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			if c := cmp.Compare(a.Category.Priority(), b.Category.Priority()); c != 0 {
				return c
			}
			return newestFirst(a, b)
		})
	}
}

// splitValues accepts both repeated keys and comma separated lists.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parsePrice(q url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, apperr.Invalid(key, "must be a non-negative number")
	}
	return v, nil
}

func parseFlag(q url.Values, key string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(q.Get(key)))
	return v
}

// ParseFilter reads a Filter from catalog query parameters.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Brands:         splitValues(q["brand"]),
		Genders:        splitValues(q["gender"]),
		FrameShapes:    splitValues(q["frameShape"]),
		MovementTypes:  splitValues(q["movementType"]),
		StrapMaterials: splitValues(q["strapMaterial"]),
		OnSale:         parseFlag(q, "onSale"),
		InStock:        parseFlag(q, "inStock"),
		Query:          strings.TrimSpace(q.Get("q")),
		Sort:           strings.TrimSpace(q.Get("sort")),
	}

	for _, raw := range splitValues(q["category"]) {
		c := models.Category(strings.ToLower(raw))
		if !c.Valid() {
			return Filter{}, apperr.Invalid("category", "unknown category "+raw)
		}
		f.Categories = append(f.Categories, c)
	}
	for _, raw := range splitValues(q["source"]) {
		s := models.Source(strings.ToLower(raw))
		if !s.Valid() {
			return Filter{}, apperr.Invalid("source", "unknown source "+raw)
		}
		f.Sources = append(f.Sources, s)
	}

	var err error
	if f.PriceMin, err = parsePrice(q, "priceMin"); err != nil {
		return Filter{}, err
	}
	if f.PriceMax, err = parsePrice(q, "priceMax"); err != nil {
		return Filter{}, err
	}
	if f.PriceMax > 0 && f.PriceMin > f.PriceMax {
		return Filter{}, apperr.Invalid("priceMin", "must not exceed priceMax")
	}

	switch f.Sort {
	case "", SortPriceAsc, SortPriceDesc, SortNewest:
	default:
		return Filter{}, apperr.Invalid("sort", "unknown sort "+f.Sort)
	}

	return f, nil
}
