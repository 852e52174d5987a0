package models

// Category is one of the three fixed product lines of the store.
type Category string

const (
	CategoryPerfumes Category = "perfumes"
	CategoryWatches  Category = "watches"
	CategoryGlasses  Category = "glasses"
)

// Categories lists the categories in display priority order.
var Categories = []Category{CategoryPerfumes, CategoryWatches, CategoryGlasses}

func (c Category) Valid() bool {
	return c.Priority() < len(Categories)
}

// Priority is the default catalog ordering: perfumes, then watches, then glasses.
// Unknown categories sort last.
func (c Category) Priority() int {
	for i, known := range Categories {
		if c == known {
			return i
		}
	}
	return len(Categories)
}

func (c Category) Label() string {
	switch c {
	case CategoryPerfumes:
		return "عطور"
	case CategoryWatches:
		return "ساعات"
	case CategoryGlasses:
		return "نظارات"
	default:
		return string(c)
	}
}

// Source tells whether a product is stocked locally or imported from Dubai.
type Source string

const (
	SourceLocal Source = "local"
	SourceDubai Source = "dubai"
)

func (s Source) Valid() bool {
	return s == SourceLocal || s == SourceDubai
}

func (s Source) Label() string {
	switch s {
	case SourceLocal:
		return "متوفر محلياً"
	case SourceDubai:
		return "استيراد من دبي"
	default:
		return string(s)
	}
}

// Gender values accepted on products.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderUnisex = "unisex"
)

func ValidGender(g string) bool {
	return g == "" || g == GenderMen || g == GenderWomen || g == GenderUnisex
}
