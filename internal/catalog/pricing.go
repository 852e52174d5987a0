package catalog

import "storefront/internal/apperr"

type priceUpdateInput struct {
	Price         *float64
	OriginalPrice *float64
}

type priceUpdateResult struct {
	Price         float64
	OriginalPrice float64
}

func isOnSale(price, originalPrice float64) bool {
	return originalPrice > 0 && originalPrice > price
}

func validatePricing(price, originalPrice float64) error {
	if price <= 0 {
		return apperr.Invalid("price", "must be greater than 0")
	}
	if originalPrice < 0 {
		return apperr.Invalid("originalPrice", "must not be negative")
	}
	if originalPrice > 0 && originalPrice <= price {
		return apperr.Invalid("originalPrice", "must be greater than price")
	}
	return nil
}

// resolvePriceUpdate merges a price patch over the stored pair. Setting
// originalPrice to 0 ends a sale.
func resolvePriceUpdate(existingPrice, existingOriginal float64, input priceUpdateInput) (priceUpdateResult, error) {
	result := priceUpdateResult{
		Price:         existingPrice,
		OriginalPrice: existingOriginal,
	}

	if input.Price != nil {
		result.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		result.OriginalPrice = *input.OriginalPrice
	}

	if err := validatePricing(result.Price, result.OriginalPrice); err != nil {
		return priceUpdateResult{}, err
	}
	return result, nil
}
